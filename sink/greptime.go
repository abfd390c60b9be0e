// Package sink forwards decoded sampled-value frames to a historian, built
// on sohooo-droneops-sim's GreptimeDBWriter shape: auto-create the table on
// construction, then batch-insert rows through the ingester client.
package sink

import (
	"context"
	"fmt"
	"sync"

	greptime "github.com/GreptimeTeam/greptimedb-ingester-go"
	ingesterContext "github.com/GreptimeTeam/greptimedb-ingester-go/context"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table/types"

	"github.com/substation-sv/sv92"
)

const defaultTableName = "sampled_values"

// GreptimeSink writes decoded sampled-value ASDUs to GreptimeDB as one row
// per frame, with one value/quality column pair per analog channel.
type GreptimeSink struct {
	mu     sync.Mutex
	client greptime.Client
	db     string
	table  string
}

// NewGreptimeSink connects to endpoint, selects database, and ensures the
// target table exists with a fixed eight-channel schema.
func NewGreptimeSink(endpoint, database, tableName string) (*GreptimeSink, error) {
	if tableName == "" {
		tableName = defaultTableName
	}

	ctx := ingesterContext.NewContext(context.Background())
	client, err := greptime.NewClient(ctx, &greptime.Config{Endpoint: endpoint})
	if err != nil {
		return nil, fmt.Errorf("sink: connect to %q: %w", endpoint, err)
	}

	ddl := fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %s (
  sv_id STRING TAG,
  smp_cnt BIGINT,
  conf_rev BIGINT,
  smp_synch STRING,
  ch0_value DOUBLE, ch0_quality BIGINT,
  ch1_value DOUBLE, ch1_quality BIGINT,
  ch2_value DOUBLE, ch2_quality BIGINT,
  ch3_value DOUBLE, ch3_quality BIGINT,
  ch4_value DOUBLE, ch4_quality BIGINT,
  ch5_value DOUBLE, ch5_quality BIGINT,
  ch6_value DOUBLE, ch6_quality BIGINT,
  ch7_value DOUBLE, ch7_quality BIGINT,
  ts TIMESTAMP TIME INDEX
) WITH (ttl='7d')
`, tableName)
	if _, err := client.SQL(ctx, ddl); err != nil {
		return nil, fmt.Errorf("sink: create table %q: %w", tableName, err)
	}

	return &GreptimeSink{client: client, db: database, table: tableName}, nil
}

// WriteFrame inserts a single decoded frame's ASDU as one row.
func (s *GreptimeSink) WriteFrame(frame *sv92.DecodedFrame) error {
	return s.WriteBatch([]*sv92.DecodedFrame{frame})
}

// WriteBatch inserts multiple decoded frames in one ingest call.
func (s *GreptimeSink) WriteBatch(frames []*sv92.DecodedFrame) error {
	if len(frames) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tbl := table.New(s.table)
	tbl.AddTagColumn("sv_id", types.StringType, 0)
	tbl.AddFieldColumn("smp_cnt", types.Int64Type)
	tbl.AddFieldColumn("conf_rev", types.Int64Type)
	tbl.AddFieldColumn("smp_synch", types.StringType)
	for i := 0; i < 8; i++ {
		tbl.AddFieldColumn(fmt.Sprintf("ch%d_value", i), types.Float64Type)
		tbl.AddFieldColumn(fmt.Sprintf("ch%d_quality", i), types.Int64Type)
	}
	tbl.SetTimeIndex("ts", types.TimestampType)

	for _, f := range frames {
		asdu := f.ASDU
		tbl.AppendTagValue("sv_id", asdu.SVID)
		tbl.AppendFieldValue("smp_cnt", int64(asdu.SmpCnt))
		tbl.AppendFieldValue("conf_rev", int64(asdu.ConfRev))
		tbl.AppendFieldValue("smp_synch", asdu.SmpSynch.String())
		for i, v := range asdu.DataSet {
			tbl.AppendFieldValue(fmt.Sprintf("ch%d_value", i), v.AsFloat64())
			tbl.AppendFieldValue(fmt.Sprintf("ch%d_quality", i), int64(v.Quality.Raw()))
		}
		tbl.AppendTimeIndex(asdu.Timestamp.AsTime())
	}

	ctx := ingesterContext.NewContext(context.Background())
	if err := s.client.Write(ctx, s.db, []*table.Table{tbl}); err != nil {
		return fmt.Errorf("sink: write %d rows: %w", len(frames), err)
	}
	return nil
}

// Handler adapts GreptimeSink to the root package's SubscriberHandler
// interface so it can be wired directly into a Subscriber, forwarding every
// decoded frame and leaving malformed-frame handling to the caller.
type Handler struct {
	Sink *GreptimeSink
}

func (h Handler) SampledValueHandler(frame *sv92.DecodedFrame) error {
	return h.Sink.WriteFrame(frame)
}

func (h Handler) MalformedFrameHandler(raw []byte, err error) error {
	return nil
}
