package sv92

import "testing"

func TestModel_AddLogicalNodeAndSVCB(t *testing.T) {
	model := NewModel("Substation1")
	node, err := model.AddLogicalNode("MU01")
	if err != nil {
		t.Fatalf("AddLogicalNode() error = %v", err)
	}

	svcb := NewSampledValueControlBlock("SV01", SVMulticastAddress(0x01))
	if err := node.AddSVCB(svcb); err != nil {
		t.Fatalf("AddSVCB() error = %v", err)
	}

	got, ok := model.FindSVCB("SV01")
	if !ok {
		t.Fatalf("FindSVCB() ok = false")
	}
	if got.Name != "SV01" {
		t.Errorf("FindSVCB() name = %q, want SV01", got.Name)
	}

	if model.ID.String() == "" {
		t.Errorf("model ID is empty")
	}
}

func TestModel_DuplicateLogicalNodeNameRejected(t *testing.T) {
	model := NewModel("Substation1")
	if _, err := model.AddLogicalNode("MU01"); err != nil {
		t.Fatalf("first AddLogicalNode() error = %v", err)
	}
	if _, err := model.AddLogicalNode("MU01"); err == nil {
		t.Errorf("second AddLogicalNode() error = nil, want ErrNameAlreadyTaken")
	}
}

func TestLogicalNode_DuplicateSVCBNameRejected(t *testing.T) {
	node := newLogicalNode("MU01")
	svcb := NewSampledValueControlBlock("SV01", SVMulticastAddress(0x01))
	if err := node.AddSVCB(svcb); err != nil {
		t.Fatalf("first AddSVCB() error = %v", err)
	}
	if err := node.AddSVCB(svcb); err == nil {
		t.Errorf("second AddSVCB() error = nil, want ErrNameAlreadyTaken")
	}
}
