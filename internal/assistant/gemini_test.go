package assistant

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"google.golang.org/genai"

	"cronos/backend/internal/domain"
)

type fakeGenerator struct {
	generateFn func(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

func (f *fakeGenerator) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	return f.generateFn(ctx, model, contents, config)
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: text}}},
		}},
	}
}

var saoPaulo = time.FixedZone("BRT", -3*60*60)

func TestGeminiSuggest_ParsesStructuredReply(t *testing.T) {
	var gotModel string
	var gotConfig *genai.GenerateContentConfig
	g := newGemini(&fakeGenerator{
		generateFn: func(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
			gotModel = model
			gotConfig = config
			return textResponse(`{"title":"Corte","clientName":"Ana","start":"2026-03-03T15:00:00","notes":"franja"}`), nil
		},
	}, "", saoPaulo, nil)

	ex, err := g.Suggest(context.Background(), "corte para Ana amanhã às 15h", time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Suggest error: %v", err)
	}
	if gotModel != DefaultModel {
		t.Fatalf("model = %q, want %q", gotModel, DefaultModel)
	}
	if gotConfig == nil || gotConfig.ResponseMIMEType != "application/json" || gotConfig.ResponseSchema == nil {
		t.Fatalf("config = %+v, want JSON response schema", gotConfig)
	}

	wantStart := time.Date(2026, 3, 3, 15, 0, 0, 0, saoPaulo)
	if !ex.Start.Equal(wantStart) {
		t.Fatalf("start = %v, want %v read in calendar location", ex.Start, wantStart)
	}
	if !ex.End.Equal(wantStart.Add(time.Hour)) {
		t.Fatalf("end = %v, want one hour default", ex.End)
	}
	if ex.Title != "Corte" || ex.ClientName != "Ana" || ex.Notes != "franja" {
		t.Fatalf("extraction = %+v", ex)
	}

	cand := ex.Candidate("c1")
	if cand.ClientID != "c1" || cand.Status != domain.StatusPending || cand.Type != domain.AppointmentTypeService {
		t.Fatalf("candidate = %+v", cand)
	}
}

func TestGeminiSuggest_Errors(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		err   error
	}{
		{name: "transport", err: errors.New("quota")},
		{name: "not json", reply: "sure, booked it"},
		{name: "bad start", reply: `{"title":"x","start":"amanhã","end":""}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newGemini(&fakeGenerator{
				generateFn: func(context.Context, string, []*genai.Content, *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
					if tt.err != nil {
						return nil, tt.err
					}
					return textResponse(tt.reply), nil
				},
			}, "", time.UTC, nil)

			ex, err := g.Suggest(context.Background(), "corte amanhã", time.Now())
			if err == nil || ex != nil {
				t.Fatalf("Suggest = %+v, %v; want error", ex, err)
			}
		})
	}
}

func TestGeminiSuggest_EmptyReply(t *testing.T) {
	g := newGemini(&fakeGenerator{
		generateFn: func(context.Context, string, []*genai.Content, *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
			return &genai.GenerateContentResponse{}, nil
		},
	}, "", time.UTC, nil)

	ex, err := g.Suggest(context.Background(), "oi", time.Now())
	if err != nil || ex != nil {
		t.Fatalf("Suggest = %+v, %v; want nil, nil", ex, err)
	}
}

func TestGeminiReminder_FallsBack(t *testing.T) {
	at := time.Date(2026, 3, 3, 18, 0, 0, 0, time.UTC)
	g := newGemini(&fakeGenerator{
		generateFn: func(context.Context, string, []*genai.Content, *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
			return nil, errors.New("unavailable")
		},
	}, "", saoPaulo, nil)

	msg := g.Reminder(context.Background(), "Ana", at, "Corte")
	if msg != "Olá Ana, lembrete do seu agendamento: Corte às 03/03 15:00." {
		t.Fatalf("reminder = %q", msg)
	}
}

func TestGeminiReminder_UsesModelText(t *testing.T) {
	g := newGemini(&fakeGenerator{
		generateFn: func(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
			if !strings.Contains(contents[0].Parts[0].Text, "Ana") {
				t.Fatalf("prompt missing client name")
			}
			return textResponse("Oi Ana! Te esperamos amanhã."), nil
		},
	}, "", time.UTC, nil)

	if msg := g.Reminder(context.Background(), "Ana", time.Now(), "Corte"); msg != "Oi Ana! Te esperamos amanhã." {
		t.Fatalf("reminder = %q", msg)
	}
}

func TestDisabled(t *testing.T) {
	ex, err := Disabled{}.Suggest(context.Background(), "corte amanhã", time.Now())
	if err != nil || ex != nil {
		t.Fatalf("Suggest = %+v, %v; want nil, nil", ex, err)
	}
	msg := Disabled{}.Reminder(context.Background(), "Ana", time.Date(2026, 3, 3, 9, 30, 0, 0, time.UTC), "Escova")
	if msg != "Olá Ana, lembrete do seu agendamento: Escova às 03/03 09:30." {
		t.Fatalf("reminder = %q", msg)
	}
}
