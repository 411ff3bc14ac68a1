package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/genai"
)

const DefaultModel = "gemini-2.5-flash"

const defaultDuration = time.Hour

// localLayouts are accepted when the model omits the zone offset; such times are read in
// the configured calendar location.
var localLayouts = []string{"2006-01-02T15:04:05", "2006-01-02T15:04", "2006-01-02 15:04"}

type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type Gemini struct {
	models contentGenerator
	model  string
	loc    *time.Location
	log    *slog.Logger
}

type GeminiConfig struct {
	APIKey   string
	Model    string
	Location *time.Location
}

func NewGemini(ctx context.Context, cfg GeminiConfig, log *slog.Logger) (*Gemini, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("assistant api key is empty")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	return newGemini(client.Models, cfg.Model, cfg.Location, log), nil
}

func newGemini(models contentGenerator, model string, loc *time.Location, log *slog.Logger) *Gemini {
	if model == "" {
		model = DefaultModel
	}
	if loc == nil {
		loc = time.UTC
	}
	if log == nil {
		log = slog.Default()
	}
	return &Gemini{
		models: models,
		model:  model,
		loc:    loc,
		log:    log.With(slog.String("component", "assistant.gemini")),
	}
}

var extractionSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"title":      {Type: genai.TypeString, Description: "Service or purpose of appointment"},
		"clientName": {Type: genai.TypeString, Description: "Name of the client"},
		"start":      {Type: genai.TypeString, Description: "Start date time ISO 8601"},
		"end":        {Type: genai.TypeString, Description: "End date time ISO 8601"},
		"notes":      {Type: genai.TypeString, Description: "Any extra details"},
	},
	Required: []string{"title", "start", "end"},
}

type extraction struct {
	Title      string `json:"title"`
	ClientName string `json:"clientName"`
	Start      string `json:"start"`
	End        string `json:"end"`
	Notes      string `json:"notes"`
}

// Suggest asks the model for a booking proposal. Relative dates in text are resolved
// against reference.
func (g *Gemini) Suggest(ctx context.Context, text string, reference time.Time) (*ExtractedAppointment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}

	instruction := fmt.Sprintf(`You are a scheduling assistant.
The current date and time is: %s.
Extract appointment details from the user's natural language request.
If the duration is not specified, assume 1 hour.
Return dates in ISO 8601 format.
If the user does not specify a date, assume today or the next logical occurrence based on "tomorrow", "next friday", etc.`,
		reference.In(g.loc).Format(time.RFC3339))

	resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(text), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(instruction, genai.RoleUser),
		ResponseMIMEType:  "application/json",
		ResponseSchema:    extractionSchema,
	})
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}
	raw := strings.TrimSpace(resp.Text())
	if raw == "" {
		return nil, nil
	}

	var ex extraction
	if err := json.Unmarshal([]byte(raw), &ex); err != nil {
		return nil, fmt.Errorf("decode extraction: %w", err)
	}
	return g.toAppointment(ex)
}

func (g *Gemini) toAppointment(ex extraction) (*ExtractedAppointment, error) {
	start, err := g.parseTime(ex.Start)
	if err != nil {
		return nil, fmt.Errorf("start: %w", err)
	}
	end := start.Add(defaultDuration)
	if strings.TrimSpace(ex.End) != "" {
		parsed, err := g.parseTime(ex.End)
		if err != nil {
			return nil, fmt.Errorf("end: %w", err)
		}
		if parsed.After(start) {
			end = parsed
		}
	}
	return &ExtractedAppointment{
		Title:      strings.TrimSpace(ex.Title),
		ClientName: strings.TrimSpace(ex.ClientName),
		Start:      start,
		End:        end,
		Notes:      strings.TrimSpace(ex.Notes),
	}, nil
}

func (g *Gemini) parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, g.loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised time %q", s)
}

// Reminder drafts a short reminder message. Model failures fall back to the fixed text.
func (g *Gemini) Reminder(ctx context.Context, clientName string, at time.Time, service string) string {
	prompt := fmt.Sprintf(
		"Create a polite, short WhatsApp reminder message for a client named %s about their appointment for %s at %s. Portuguese language.",
		clientName, service, at.In(g.loc).Format("02/01/2006 15:04"))

	resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		g.log.Warn("reminder generation failed", slog.Any("err", err))
		return FallbackReminder(clientName, at, service, g.loc)
	}
	if msg := strings.TrimSpace(resp.Text()); msg != "" {
		return msg
	}
	return FallbackReminder(clientName, at, service, g.loc)
}
