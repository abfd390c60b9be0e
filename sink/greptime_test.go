package sink

import (
	"context"
	"testing"

	gpb "github.com/GreptimeTeam/greptime-proto/go/greptime/v1"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table"

	"github.com/substation-sv/sv92"
)

type mockGreptimeClient struct {
	table *table.Table
}

func (m *mockGreptimeClient) Write(ctx context.Context, db string, tables []*table.Table) (*gpb.GreptimeResponse, error) {
	if len(tables) > 0 {
		m.table = tables[0]
	}
	return &gpb.GreptimeResponse{}, nil
}

func (m *mockGreptimeClient) SQL(ctx context.Context, sql string) (*gpb.GreptimeResponse, error) {
	return &gpb.GreptimeResponse{}, nil
}

func sampleFrame() *sv92.DecodedFrame {
	asdu := &sv92.ASDU{
		SVID:     "SV01",
		SmpCnt:   42,
		ConfRev:  1,
		SmpSynch: sv92.SmpSynchLocal,
		Timestamp: sv92.NowPTP(),
	}
	for i := range asdu.DataSet {
		asdu.DataSet[i] = sv92.NewInt32Value(int32(i), sv92.NewQuality(0))
	}
	return &sv92.DecodedFrame{ASDU: asdu}
}

func TestGreptimeSink_WriteBatch_PopulatesTable(t *testing.T) {
	m := &mockGreptimeClient{}
	s := &GreptimeSink{client: m, db: "substation", table: defaultTableName}

	if err := s.WriteBatch([]*sv92.DecodedFrame{sampleFrame()}); err != nil {
		t.Fatalf("WriteBatch() error = %v", err)
	}
	if m.table == nil {
		t.Fatalf("expected table to be captured")
	}
	if got := m.table.GetRows().Rows[0].Values[0].GetStringValue(); got != "SV01" {
		t.Errorf("sv_id = %q, want SV01", got)
	}
}

func TestGreptimeSink_WriteBatch_EmptyIsNoop(t *testing.T) {
	m := &mockGreptimeClient{}
	s := &GreptimeSink{client: m, db: "substation", table: defaultTableName}

	if err := s.WriteBatch(nil); err != nil {
		t.Fatalf("WriteBatch(nil) error = %v", err)
	}
	if m.table != nil {
		t.Errorf("expected no table write for empty batch")
	}
}
