// Package wizard drives the three-step request flow: per-step field gating,
// then generation and refinement against the model with a single-flight
// busy gate and write-through history.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/edutools-id/bikinsoal/internal/catalog"
	"github.com/edutools-id/bikinsoal/internal/history"
	"github.com/edutools-id/bikinsoal/internal/model"
	"github.com/edutools-id/bikinsoal/internal/prompt"
)

// ErrBusy rejects a submission while another generation or refinement is
// in flight. Submissions are never queued or cancelled.
var ErrBusy = errors.New("a generation is already in progress")

// Steps in the wizard. Validation is per step so the frontend can gate its
// "next" button with the same rules the server enforces on submit.
const (
	StepMaterial = 1
	StepFormat   = 2
	StepStyle    = 3
)

// ValidationError lists the fields a request is missing, grouped by the
// wizard step that owns them.
type ValidationError struct {
	Missing map[int][]string
}

func (e *ValidationError) Error() string {
	var parts []string
	for step := StepMaterial; step <= StepStyle; step++ {
		if fields := e.Missing[step]; len(fields) > 0 {
			parts = append(parts, fmt.Sprintf("step %d: %s", step, strings.Join(fields, ", ")))
		}
	}
	return "incomplete request (" + strings.Join(parts, "; ") + ")"
}

// StepMissing returns the names of the required fields a request leaves
// empty for one wizard step.
func StepMissing(req model.QuestionRequest, step int) []string {
	var missing []string
	switch step {
	case StepMaterial:
		for _, f := range []struct{ name, value string }{
			{"jenjang", req.Jenjang},
			{"kelas", req.Kelas},
			{"mapel", req.Mapel},
			{"semester", req.Semester},
			{"topik", req.Topik},
		} {
			if strings.TrimSpace(f.value) == "" {
				missing = append(missing, f.name)
			}
		}
	case StepFormat:
		if len(req.JenisSoal) == 0 {
			missing = append(missing, "jenisSoal")
		}
		if req.TotalQuestions() <= 0 {
			missing = append(missing, "jumlahPerJenis")
		}
	case StepStyle:
		if strings.TrimSpace(req.Level) == "" {
			missing = append(missing, "level")
		}
		if strings.TrimSpace(req.GayaBahasa) == "" {
			missing = append(missing, "gayaBahasa")
		}
	}
	return missing
}

// Validate checks all steps at once. A nil return means the request is
// complete enough to submit.
func Validate(req model.QuestionRequest) *ValidationError {
	missing := map[int][]string{}
	for step := StepMaterial; step <= StepStyle; step++ {
		if fields := StepMissing(req, step); len(fields) > 0 {
			missing[step] = fields
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return &ValidationError{Missing: missing}
}

// Generator is the model client the controller calls out to.
type Generator interface {
	Generate(ctx context.Context, systemInstruction, userPrompt string) (string, error)
	Refine(ctx context.Context, prompt string) (string, error)
}

// Controller orchestrates generation and refinement. One in-flight call
// per controller; concurrent submissions fail fast with ErrBusy.
type Controller struct {
	cat     *catalog.Catalog
	builder *prompt.Builder
	llm     Generator
	hist    *history.Store

	mu   sync.Mutex
	busy bool
}

func NewController(cat *catalog.Catalog, llm Generator, hist *history.Store) *Controller {
	return &Controller{
		cat:     cat,
		builder: prompt.NewBuilder(cat),
		llm:     llm,
		hist:    hist,
	}
}

func (c *Controller) acquire() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.busy {
		return ErrBusy
	}
	c.busy = true
	return nil
}

func (c *Controller) release() {
	c.mu.Lock()
	c.busy = false
	c.mu.Unlock()
}

// Generate validates the request, produces an exam paper and saves it to
// history. History is only written when generation succeeds.
func (c *Controller) Generate(ctx context.Context, req model.QuestionRequest) (model.HistoryItem, error) {
	if err := Validate(req); err != nil {
		return model.HistoryItem{}, err
	}
	if !c.cat.ValidJenisSoal(req.UserType, req.JenisSoal) {
		return model.HistoryItem{}, fmt.Errorf("question types not offered for user type %q", req.UserType)
	}
	if err := c.acquire(); err != nil {
		return model.HistoryItem{}, err
	}
	defer c.release()

	userPrompt := c.builder.Generate(req)
	slog.Info("generating exam paper",
		"mapel", req.Mapel, "topik", req.Topik, "total", req.TotalQuestions())

	raw, err := c.llm.Generate(ctx, prompt.SystemInstruction, userPrompt)
	if err != nil {
		return model.HistoryItem{}, fmt.Errorf("generate exam: %w", err)
	}

	item, err := c.hist.Add(req, raw)
	if err != nil {
		// The paper exists even if saving it failed; return it anyway.
		slog.Error("saving history", "error", err)
		return model.HistoryItem{Request: req, Result: raw}, nil
	}
	return item, nil
}

// Refine reworks a previous result with one of the closed refinement
// actions. On failure the caller keeps the previous result; nothing is
// persisted here.
func (c *Controller) Refine(ctx context.Context, action model.RefineAction, original string) (string, error) {
	if !model.IsValidRefineAction(string(action)) {
		return "", fmt.Errorf("unknown refine action %q", action)
	}
	if err := c.acquire(); err != nil {
		return "", err
	}
	defer c.release()

	slog.Info("refining exam paper", "action", action)
	refined, err := c.llm.Refine(ctx, prompt.Refine(action, original))
	if err != nil {
		return "", fmt.Errorf("refine exam: %w", err)
	}
	return refined, nil
}
