package pdf

import (
	"context"
	"io"
)

// Provider renders mission completion certificates.
type Provider interface {
	GenerateCertificate(ctx context.Context, data CertificateData) (io.Reader, error)
}

// CertificateData carries everything printed on a certificate.
type CertificateData struct {
	RecipientName string
	MissionTitle  string
	MissionStory  string
	CompletedOn   string
	CoinsAwarded  int64
	ScoreAwarded  int64
	Reference     string
}

type NoOpProvider struct{}

func (p *NoOpProvider) GenerateCertificate(ctx context.Context, data CertificateData) (io.Reader, error) {
	return nil, nil
}
