package report

import "context"

// EndOfDayData is the record-id bundle rendered into the shift report.
type EndOfDayData struct {
	OperatorName   string
	Date           string
	ShiftNotes     string
	NCANumbers     []string
	MJCNumbers     []string
	WorkOrderCount int
}

// Generator port: produces the report artifact as an opaque byte buffer.
type Generator interface {
	EndOfDayPDF(ctx context.Context, data EndOfDayData) ([]byte, error)
}

// ArtifactStore port: durable storage for generated report artifacts.
type ArtifactStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
}
