package pipeline

import (
	"context"
	"errors"
	"testing"
)

func TestRunner_EndToEnd(t *testing.T) {
	table, err := Parse("email;pais\nA@X.com;Brasil\na@x.com;Portugal\nbad-email;Brasil\n")
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}

	mapping := Mapping{"email": FieldEmail, "pais": FieldCountry}
	runner := NewRunner(newTestClassifier())

	accepted, report, err := runner.Run(context.Background(), table, mapping, NewOptOutSets(nil, nil), Defaults{}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(accepted) != 1 {
		t.Fatalf("expected exactly one accepted record, got %d", len(accepted))
	}
	if accepted[0].Email != "a@x.com" || accepted[0].Country != "Brasil" {
		t.Fatalf("first occurrence must win: %+v", accepted[0])
	}
	if report.Duplicates != 1 || report.Invalid != 1 || report.Processed != 1 || report.Total != 3 {
		t.Fatalf("unexpected report: %+v", report)
	}
}

func TestRunner_EmailNotMapped(t *testing.T) {
	table, err := Parse("endereco;pais\na@x.com;Brasil\n")
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}

	runner := NewRunner(newTestClassifier())
	_, _, err = runner.Run(context.Background(), table, Mapping{"pais": FieldCountry}, NewOptOutSets(nil, nil), Defaults{}, nil)
	if !errors.Is(err, ErrEmailNotMapped) {
		t.Fatalf("expected ErrEmailNotMapped, got %v", err)
	}
}

func TestRunner_DerivesNameAndWebsite(t *testing.T) {
	table, err := Parse("email\njoao.silva@gmail.com\ncontato@empresa.com\n")
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}

	runner := NewRunner(newTestClassifier())
	accepted, _, err := runner.Run(context.Background(), table, Mapping{"email": FieldEmail}, NewOptOutSets(nil, nil), Defaults{}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if accepted[0].Name != "Joao Silva" || accepted[0].Website != "" {
		t.Fatalf("unexpected webmail record: %+v", accepted[0])
	}
	if accepted[1].Name != "Empresa" || accepted[1].Website != "https://empresa.com" {
		t.Fatalf("unexpected corporate record: %+v", accepted[1])
	}
}

func TestRunner_ExplicitValuesNotOverwritten(t *testing.T) {
	table, err := Parse("email;name;website\njoao.silva@gmail.com;Dr. Silva;https://clinica.example\n")
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}

	mapping := Mapping{"email": FieldEmail, "name": FieldName, "website": FieldWebsite}
	runner := NewRunner(newTestClassifier())
	accepted, _, err := runner.Run(context.Background(), table, mapping, NewOptOutSets(nil, nil), Defaults{}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if accepted[0].Name != "Dr. Silva" || accepted[0].Website != "https://clinica.example" {
		t.Fatalf("mapped values must win over derivation: %+v", accepted[0])
	}
}

func TestRunner_ChunkBoundariesDoNotAffectOutput(t *testing.T) {
	text := "email\n"
	for i := 0; i < 7; i++ {
		text += "joao.silva@gmail.com\n"
		text += "maria@empresa.com\n"
	}
	table, err := Parse(text)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	mapping := Mapping{"email": FieldEmail}

	small := &Runner{Classifier: newTestClassifier(), ChunkSize: 3}
	large := &Runner{Classifier: newTestClassifier(), ChunkSize: 1000}

	smallAccepted, smallReport, err := small.Run(context.Background(), table, mapping, NewOptOutSets(nil, nil), Defaults{}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	largeAccepted, largeReport, err := large.Run(context.Background(), table, mapping, NewOptOutSets(nil, nil), Defaults{}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(smallAccepted) != len(largeAccepted) || smallReport != largeReport {
		t.Fatalf("chunk size changed the outcome: %+v vs %+v", smallReport, largeReport)
	}
	if smallReport.Duplicates != 12 || smallReport.Processed != 2 {
		t.Fatalf("unexpected dedup across chunks: %+v", smallReport)
	}
}

func TestRunner_ProgressMonotonic(t *testing.T) {
	text := "email\n"
	for i := 0; i < 10; i++ {
		text += "joao.silva@gmail.com\n"
	}
	table, err := Parse(text)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}

	var updates []Progress
	runner := &Runner{Classifier: newTestClassifier(), ChunkSize: 4}
	_, _, err = runner.Run(context.Background(), table, Mapping{"email": FieldEmail}, NewOptOutSets(nil, nil), Defaults{}, func(p Progress) {
		updates = append(updates, p)
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(updates) != 3 {
		t.Fatalf("expected 3 progress updates, got %d", len(updates))
	}
	last := 0
	for _, p := range updates {
		if p.Processed <= last || p.Total != 10 {
			t.Fatalf("progress must be monotonically increasing: %+v", updates)
		}
		last = p.Processed
	}
	if updates[len(updates)-1].Processed != 10 {
		t.Fatalf("final progress must equal total: %+v", updates)
	}
}

func TestRunner_Cancellation(t *testing.T) {
	text := "email\n"
	for i := 0; i < 10; i++ {
		text += "joao.silva@gmail.com\n"
	}
	table, err := Parse(text)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runner := &Runner{Classifier: newTestClassifier(), ChunkSize: 2}
	_, _, err = runner.Run(ctx, table, Mapping{"email": FieldEmail}, NewOptOutSets(nil, nil), Defaults{}, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
