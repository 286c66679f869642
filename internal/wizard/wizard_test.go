package wizard

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/edutools-id/bikinsoal/internal/catalog"
	"github.com/edutools-id/bikinsoal/internal/history"
	"github.com/edutools-id/bikinsoal/internal/model"
)

type fakeLLM struct {
	mu         sync.Mutex
	generated  string
	refineErr  error
	genErr     error
	inFlight   chan struct{} // when set, Generate blocks until it is closed
	lastPrompt string
}

func (f *fakeLLM) Generate(ctx context.Context, system, user string) (string, error) {
	f.mu.Lock()
	f.lastPrompt = user
	f.mu.Unlock()
	if f.inFlight != nil {
		<-f.inFlight
	}
	if f.genErr != nil {
		return "", f.genErr
	}
	return f.generated, nil
}

func (f *fakeLLM) Refine(ctx context.Context, prompt string) (string, error) {
	f.mu.Lock()
	f.lastPrompt = prompt
	f.mu.Unlock()
	if f.refineErr != nil {
		return "", f.refineErr
	}
	return "refined: " + prompt, nil
}

func newTestController(t *testing.T, llm *fakeLLM) *Controller {
	t.Helper()
	cat, err := catalog.Load()
	if err != nil {
		t.Fatalf("catalog.Load: %v", err)
	}
	hist, err := history.New(":memory:")
	if err != nil {
		t.Fatalf("history.New: %v", err)
	}
	t.Cleanup(func() { hist.Close() })
	return NewController(cat, llm, hist)
}

func completeRequest() model.QuestionRequest {
	return model.QuestionRequest{
		Language:   "Bahasa Indonesia",
		Jenjang:    "SD / MI",
		Kelas:      "Kelas 5",
		Mapel:      "Matematika",
		Topik:      "Pecahan",
		Semester:   "Semester 1",
		JenisSoal:  []string{"Pilihan Ganda (Standar)"},
		JumlahPerJenis: map[string]int{
			"Pilihan Ganda (Standar)": 10,
		},
		Level:      "Level 2: Sedang (Aplikasi)",
		GayaBahasa: "Bahasa Formal Sekolah (Baku Akademik)",
		UserType:   "Guru Sekolah (Formal & Terstruktur)",
	}
}

func TestStepMissing(t *testing.T) {
	t.Run("complete request has no gaps", func(t *testing.T) {
		req := completeRequest()
		for step := StepMaterial; step <= StepStyle; step++ {
			if missing := StepMissing(req, step); len(missing) != 0 {
				t.Errorf("step %d missing = %v", step, missing)
			}
		}
	})

	t.Run("material step", func(t *testing.T) {
		req := completeRequest()
		req.Kelas = ""
		req.Topik = "  "
		got := StepMissing(req, StepMaterial)
		if !slices.Equal(got, []string{"kelas", "topik"}) {
			t.Errorf("missing = %v", got)
		}
	})

	t.Run("format step needs a positive total", func(t *testing.T) {
		req := completeRequest()
		req.JumlahPerJenis = map[string]int{}
		got := StepMissing(req, StepFormat)
		if !slices.Contains(got, "jumlahPerJenis") {
			t.Errorf("missing = %v", got)
		}

		req.JenisSoal = nil
		got = StepMissing(req, StepFormat)
		if !slices.Contains(got, "jenisSoal") {
			t.Errorf("missing = %v", got)
		}
	})

	t.Run("style step", func(t *testing.T) {
		req := completeRequest()
		req.Level = ""
		req.GayaBahasa = ""
		got := StepMissing(req, StepStyle)
		if !slices.Equal(got, []string{"level", "gayaBahasa"}) {
			t.Errorf("missing = %v", got)
		}
	})
}

func TestValidate(t *testing.T) {
	if err := Validate(completeRequest()); err != nil {
		t.Errorf("complete request invalid: %v", err)
	}

	req := completeRequest()
	req.Mapel = ""
	req.Level = ""
	err := Validate(req)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !slices.Contains(err.Missing[StepMaterial], "mapel") {
		t.Errorf("step 1 missing = %v", err.Missing[StepMaterial])
	}
	if !slices.Contains(err.Missing[StepStyle], "level") {
		t.Errorf("step 3 missing = %v", err.Missing[StepStyle])
	}
	if !strings.Contains(err.Error(), "step 1: mapel") {
		t.Errorf("error text = %q", err.Error())
	}
}

func TestGenerateSavesHistory(t *testing.T) {
	llm := &fakeLLM{generated: "naskah soal"}
	c := newTestController(t, llm)

	item, err := c.Generate(context.Background(), completeRequest())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if item.Result != "naskah soal" {
		t.Errorf("result = %q", item.Result)
	}
	if item.ID == "" {
		t.Error("item not assigned an id")
	}

	list, err := c.hist.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 || list[0].ID != item.ID {
		t.Errorf("history = %+v", list)
	}
}

func TestGenerateRejectsIncompleteRequest(t *testing.T) {
	llm := &fakeLLM{generated: "naskah"}
	c := newTestController(t, llm)

	req := completeRequest()
	req.Topik = ""
	_, err := c.Generate(context.Background(), req)

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}

	// Nothing reached the model or the history.
	if llm.lastPrompt != "" {
		t.Error("incomplete request reached the model")
	}
	if list, _ := c.hist.List(); len(list) != 0 {
		t.Error("incomplete request wrote history")
	}
}

func TestGenerateRejectsForeignQuestionTypes(t *testing.T) {
	llm := &fakeLLM{generated: "naskah"}
	c := newTestController(t, llm)

	req := completeRequest()
	req.JenisSoal = []string{"Drilling Pilihan Ganda (Speed Test)"}
	req.JumlahPerJenis = map[string]int{"Drilling Pilihan Ganda (Speed Test)": 10}

	if _, err := c.Generate(context.Background(), req); err == nil {
		t.Error("tutoring question type accepted for school teacher")
	}
}

func TestGenerateErrorLeavesHistoryEmpty(t *testing.T) {
	llm := &fakeLLM{genErr: errors.New("model unavailable")}
	c := newTestController(t, llm)

	if _, err := c.Generate(context.Background(), completeRequest()); err == nil {
		t.Fatal("expected generation error")
	}
	if list, _ := c.hist.List(); len(list) != 0 {
		t.Error("failed generation wrote history")
	}
}

func TestBusyGate(t *testing.T) {
	gate := make(chan struct{})
	llm := &fakeLLM{generated: "naskah", inFlight: gate}
	c := newTestController(t, llm)

	done := make(chan error, 1)
	go func() {
		_, err := c.Generate(context.Background(), completeRequest())
		done <- err
	}()

	// Wait until the first call holds the gate.
	for {
		c.mu.Lock()
		busy := c.busy
		c.mu.Unlock()
		if busy {
			break
		}
		time.Sleep(time.Millisecond)
	}

	if _, err := c.Refine(context.Background(), model.RefineAudit, "naskah"); !errors.Is(err, ErrBusy) {
		t.Errorf("concurrent refine err = %v, want ErrBusy", err)
	}
	if _, err := c.Generate(context.Background(), completeRequest()); !errors.Is(err, ErrBusy) {
		t.Errorf("concurrent generate err = %v, want ErrBusy", err)
	}

	close(gate)
	if err := <-done; err != nil {
		t.Fatalf("first generate failed: %v", err)
	}

	// The gate is released afterwards.
	llm.inFlight = nil
	if _, err := c.Refine(context.Background(), model.RefineAudit, "naskah"); err != nil {
		t.Errorf("refine after release: %v", err)
	}
}

func TestRefine(t *testing.T) {
	llm := &fakeLLM{}
	c := newTestController(t, llm)

	got, err := c.Refine(context.Background(), model.RefineShuffleQ, "naskah asli")
	if err != nil {
		t.Fatalf("Refine: %v", err)
	}
	if !strings.HasPrefix(got, "refined: ") {
		t.Errorf("result = %q", got)
	}
	if !strings.Contains(llm.lastPrompt, "SHUFFLE_Q") {
		t.Errorf("prompt missing action: %q", llm.lastPrompt)
	}
	if !strings.Contains(llm.lastPrompt, "naskah asli") {
		t.Errorf("prompt missing original: %q", llm.lastPrompt)
	}
}

func TestRefineRejectsUnknownAction(t *testing.T) {
	llm := &fakeLLM{}
	c := newTestController(t, llm)

	if _, err := c.Refine(context.Background(), "MAKE_BETTER", "naskah"); err == nil {
		t.Error("unknown action accepted")
	}
	if llm.lastPrompt != "" {
		t.Error("unknown action reached the model")
	}
}
