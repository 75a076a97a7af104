package intake_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/nivaranhq/nivaran/internal/grievances"
	"github.com/nivaranhq/nivaran/internal/intake"
	"github.com/nivaranhq/nivaran/internal/sla"
	"github.com/nivaranhq/nivaran/internal/triage"
)

func TestParseStatusQuery(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name   string
		body   string
		wantID uuid.UUID
		wantOK bool
	}{
		{"uppercase", "STATUS " + id.String(), id, true},
		{"lowercase", "status " + id.String(), id, true},
		{"mixed case with whitespace", "  Status   " + id.String() + "  ", id, true},
		{"not a status query", "My road is broken", uuid.Nil, false},
		{"invalid id", "STATUS not-a-uuid", uuid.Nil, false},
		{"too many fields", "STATUS " + id.String() + " extra", uuid.Nil, false},
		{"bare keyword", "STATUS", uuid.Nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := intake.ParseStatusQuery(tt.body)
			if ok != tt.wantOK {
				t.Fatalf("ok: got %v, want %v", ok, tt.wantOK)
			}
			if got != tt.wantID {
				t.Errorf("id: got %s, want %s", got, tt.wantID)
			}
		})
	}
}

type mockGrievances struct {
	grievances.System

	found     *grievances.Grievance
	findErr   error
	created   *grievances.Grievance
	createErr error
	attachErr error

	gotCreate     *grievances.CreateCommand
	gotAttachData []byte
}

func (m *mockGrievances) Find(ctx context.Context, id uuid.UUID) (*grievances.Grievance, error) {
	return m.found, m.findErr
}

func (m *mockGrievances) Create(ctx context.Context, cmd grievances.CreateCommand) (*grievances.Grievance, error) {
	m.gotCreate = &cmd
	return m.created, m.createErr
}

func (m *mockGrievances) AttachReportEvidence(ctx context.Context, id uuid.UUID, version int, data []byte, contentType string) (*grievances.Grievance, error) {
	m.gotAttachData = data
	if m.attachErr != nil {
		return nil, m.attachErr
	}
	g := *m.created
	key := "evidence/" + id.String() + "/report"
	g.ReportEvidenceKey = &key
	return &g, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig(politicianID string) *intake.Config {
	cfg := &intake.Config{PoliticianID: politicianID}
	if err := cfg.Finalize(nil); err != nil {
		panic(err)
	}
	return cfg
}

func sampleGrievance() *grievances.Grievance {
	createdAt := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	return &grievances.Grievance{
		ID:           uuid.New(),
		PoliticianID: uuid.New(),
		Description:  "No drinking water for a week",
		Category:     triage.CategoryWater,
		Priority:     sla.PriorityHigh,
		Status:       grievances.StatusInProgress,
		CreatedAt:    createdAt,
		Deadline:     sla.Deadline(createdAt, sla.PriorityHigh),
		Version:      1,
	}
}

func TestProcessValidation(t *testing.T) {
	svc := intake.New(&mockGrievances{}, testConfig(uuid.NewString()), testLogger())

	tests := []struct {
		name    string
		event   intake.Event
		wantErr error
	}{
		{"missing sender", intake.Event{Body: "hello"}, intake.ErrMissingSender},
		{"empty body", intake.Event{Sender: "+919900112233"}, intake.ErrEmptyBody},
		{"whitespace body", intake.Event{Sender: "+919900112233", Body: "   "}, intake.ErrEmptyBody},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Process(context.Background(), tt.event)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error: got %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestProcessStatusQuery(t *testing.T) {
	g := sampleGrievance()
	svc := intake.New(&mockGrievances{found: g}, testConfig(uuid.NewString()), testLogger())

	reply, err := svc.Process(context.Background(), intake.Event{
		Sender: "+919900112233",
		Body:   "STATUS " + g.ID.String(),
	})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	if reply.To != "+919900112233" {
		t.Errorf("reply to: got %s", reply.To)
	}
	if !strings.Contains(reply.Body, g.ID.String()) {
		t.Errorf("reply should name the grievance id: %q", reply.Body)
	}
	if !strings.Contains(reply.Body, string(grievances.StatusInProgress)) {
		t.Errorf("reply should carry the status: %q", reply.Body)
	}
}

func TestProcessStatusQueryResolved(t *testing.T) {
	g := sampleGrievance()
	g.Status = grievances.StatusResolved
	resolvedAt := g.CreatedAt.Add(6 * time.Hour)
	g.ResolvedAt = &resolvedAt

	svc := intake.New(&mockGrievances{found: g}, testConfig(uuid.NewString()), testLogger())

	reply, err := svc.Process(context.Background(), intake.Event{
		Sender: "+919900112233",
		Body:   "status " + g.ID.String(),
	})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if !strings.Contains(reply.Body, "resolved") {
		t.Errorf("reply should mention resolution: %q", reply.Body)
	}
}

func TestProcessStatusQueryNotFound(t *testing.T) {
	svc := intake.New(&mockGrievances{findErr: grievances.ErrNotFound}, testConfig(uuid.NewString()), testLogger())

	reply, err := svc.Process(context.Background(), intake.Event{
		Sender: "+919900112233",
		Body:   "STATUS " + uuid.NewString(),
	})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if !strings.Contains(reply.Body, "No grievance found") {
		t.Errorf("reply: %q", reply.Body)
	}
}

func TestProcessRegister(t *testing.T) {
	g := sampleGrievance()
	mock := &mockGrievances{created: g}
	politicianID := uuid.New()
	svc := intake.New(mock, testConfig(politicianID.String()), testLogger())

	reply, err := svc.Process(context.Background(), intake.Event{
		Sender: "+919900112233",
		Body:   "No drinking water for a week",
	})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	if mock.gotCreate == nil {
		t.Fatal("Create was not called")
	}
	if mock.gotCreate.PoliticianID != politicianID {
		t.Errorf("politician: got %s, want configured %s", mock.gotCreate.PoliticianID, politicianID)
	}
	if mock.gotCreate.Source != grievances.SourceChannel {
		t.Errorf("source: got %s, want channel", mock.gotCreate.Source)
	}
	if mock.gotCreate.ReporterPhone == nil || *mock.gotCreate.ReporterPhone != "+919900112233" {
		t.Error("reporter phone not carried from sender")
	}

	for _, want := range []string{g.ID.String(), string(g.Category), string(g.Priority), "STATUS"} {
		if !strings.Contains(reply.Body, want) {
			t.Errorf("reply missing %q: %q", want, reply.Body)
		}
	}
}

func TestProcessRegisterEventPoliticianOverrides(t *testing.T) {
	g := sampleGrievance()
	mock := &mockGrievances{created: g}
	svc := intake.New(mock, testConfig(uuid.NewString()), testLogger())

	override := uuid.New()
	_, err := svc.Process(context.Background(), intake.Event{
		Sender:       "+919900112233",
		Body:         "Streetlight not working",
		PoliticianID: &override,
	})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if mock.gotCreate.PoliticianID != override {
		t.Errorf("politician: got %s, want override %s", mock.gotCreate.PoliticianID, override)
	}
}

func TestProcessRegisterUnknownRecipient(t *testing.T) {
	svc := intake.New(&mockGrievances{created: sampleGrievance()}, testConfig(""), testLogger())

	_, err := svc.Process(context.Background(), intake.Event{
		Sender: "+919900112233",
		Body:   "Streetlight not working",
	})
	if !errors.Is(err, intake.ErrUnknownRecipient) {
		t.Errorf("error: got %v, want ErrUnknownRecipient", err)
	}
}

func TestProcessRegisterWithImage(t *testing.T) {
	g := sampleGrievance()
	mock := &mockGrievances{created: g}
	svc := intake.New(mock, testConfig(uuid.NewString()), testLogger())

	_, err := svc.Process(context.Background(), intake.Event{
		Sender: "+919900112233",
		Body:   "Garbage piling up near the school",
		Media: []intake.Media{
			{Data: []byte("not an image"), ContentType: "application/pdf"},
			{Data: []byte{0xFF, 0xD8, 0xFF}, ContentType: "image/jpeg"},
		},
	})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	if mock.gotAttachData == nil {
		t.Fatal("first image attachment was not forwarded as report evidence")
	}
	if len(mock.gotAttachData) != 3 {
		t.Errorf("attached %d bytes, want the image payload", len(mock.gotAttachData))
	}
}

func TestProcessRegisterAttachFailureStillReplies(t *testing.T) {
	g := sampleGrievance()
	mock := &mockGrievances{created: g, attachErr: errors.New("storage unavailable")}
	svc := intake.New(mock, testConfig(uuid.NewString()), testLogger())

	reply, err := svc.Process(context.Background(), intake.Event{
		Sender: "+919900112233",
		Body:   "Garbage piling up near the school",
		Media:  []intake.Media{{Data: []byte{0xFF}, ContentType: "image/jpeg"}},
	})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if !strings.Contains(reply.Body, g.ID.String()) {
		t.Errorf("registration reply missing id: %q", reply.Body)
	}
}
