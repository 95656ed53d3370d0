package archive

import "time"

// Trace is a stored trace blob.
type Trace struct {
	ID          uint   `gorm:"primaryKey"`
	Channel     string `gorm:"uniqueIndex:idx_trace_channel_seq; not null"`
	Seq         uint32 `gorm:"uniqueIndex:idx_trace_channel_seq"`
	StartTime   time.Time
	SampleCount int
	BlockCount  int
	Data        []byte `gorm:"not null"`
	CreatedAt   time.Time
}

// TraceInfo describes a stored trace without its data.
type TraceInfo struct {
	Channel     string
	Seq         uint32
	StartTime   time.Time
	SampleCount int
	BlockCount  int
	Size        int
}

func (t *Trace) info() TraceInfo {
	return TraceInfo{
		Channel:     t.Channel,
		Seq:         t.Seq,
		StartTime:   t.StartTime,
		SampleCount: t.SampleCount,
		BlockCount:  t.BlockCount,
		Size:        len(t.Data),
	}
}
