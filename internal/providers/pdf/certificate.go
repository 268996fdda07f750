package pdf

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

type PDFProvider struct{}

func New() Provider {
	return &PDFProvider{}
}

func (p *PDFProvider) GenerateCertificate(ctx context.Context, data CertificateData) (io.Reader, error) {
	_ = ctx

	cfg := config.NewBuilder().Build()

	m := maroto.New(cfg)

	m.AddRow(30,
		text.NewCol(12, "Certificate of Completion", props.Text{
			Size:  24,
			Style: fontstyle.Bold,
			Align: align.Center,
			Top:   10,
		}),
	)

	m.AddRow(15,
		text.NewCol(12, "CarbonCtrl Eco Missions", props.Text{
			Size:  12,
			Align: align.Center,
		}),
	)

	m.AddRow(20,
		text.NewCol(12, "awarded to", props.Text{
			Size:  10,
			Align: align.Center,
			Top:   8,
		}),
	)

	m.AddRow(20,
		text.NewCol(12, data.RecipientName, props.Text{
			Size:  18,
			Style: fontstyle.Bold,
			Align: align.Center,
		}),
	)

	m.AddRow(25,
		text.NewCol(12, fmt.Sprintf("for completing the mission %q", data.MissionTitle), props.Text{
			Size:  12,
			Align: align.Center,
			Top:   5,
		}),
	)

	if data.MissionStory != "" {
		m.AddRow(20,
			text.NewCol(12, data.MissionStory, props.Text{
				Size:  9,
				Align: align.Center,
			}),
		)
	}

	m.AddRow(20,
		col.New(4).Add(
			text.New("Completed on", props.Text{Style: fontstyle.Bold, Size: 9}),
			text.New(data.CompletedOn, props.Text{Top: 5, Size: 9}),
		),
		col.New(4).Add(
			text.New("EcoCoins earned", props.Text{Style: fontstyle.Bold, Size: 9}),
			text.New(fmt.Sprintf("%d", data.CoinsAwarded), props.Text{Top: 5, Size: 9}),
		),
		col.New(4).Add(
			text.New("Eco score earned", props.Text{Style: fontstyle.Bold, Size: 9}),
			text.New(fmt.Sprintf("%d", data.ScoreAwarded), props.Text{Top: 5, Size: 9}),
		),
	)

	m.AddRow(15,
		text.NewCol(12, "Certificate ref: "+data.Reference, props.Text{
			Size:  7,
			Align: align.Center,
			Top:   8,
		}),
	)

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}

	return bytes.NewReader(doc.GetBytes()), nil
}
