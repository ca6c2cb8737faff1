// Demo host for the tqgen library: builds a test document, walks the full
// lifecycle from authoring to correction, and persists snapshots plus a
// transition log through docstore.
package main

import (
	"context"
	"os"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/tqgen/tqgen/docstore"
	"github.com/tqgen/tqgen/document"
	"github.com/tqgen/tqgen/form"
	"github.com/tqgen/tqgen/internal/config"
)

func main() {
	cfg := config.FromEnv()
	if cfg.PrettyLog {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	if cfg.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	ctx := context.Background()
	db, err := docstore.Open(ctx, docstore.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("open docstore")
	}
	defer db.Close()
	store := docstore.NewStore(db)
	events := docstore.NewEventLog(db)

	docID := uuid.NewString()
	var sections []form.Section
	if cfg.SectionsPath != "" {
		data, err := os.ReadFile(cfg.SectionsPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.SectionsPath).Msg("read sections file")
		}
		sections, err = form.LoadSections(data)
		if err != nil {
			log.Fatal().Err(err).Msg("load sections")
		}
	}

	ctrl, err := document.New(document.Params{
		ID:       docID,
		Mode:     form.ModeTest,
		Role:     form.RoleEditor,
		Sections: sections,
		Config: document.Config{
			AllowSelectReviewer:      true,
			AllowReCorrect:           true,
			AllowUpdateAfterFinished: true,
		},
		Callbacks: document.Callbacks{
			SetSections: func(next []form.Section) { sections = next },
			OnTransition: func(from, to form.Status, total float64) {
				log.Info().Str("from", string(from)).Str("to", string(to)).
					Float64("total", total).Msg("status transition")
				if err := events.Append(ctx, docstore.Event{
					DocumentID: docID, From: from, To: to, TotalScore: total,
				}); err != nil {
					log.Error().Err(err).Msg("append transition event")
				}
			},
			OnSubmitResponse: func(total float64, reviewerID string) {
				log.Info().Float64("total", total).Str("reviewer", reviewerID).Msg("responses submitted")
			},
			OnSubmitCorrect: func(total float64, pass bool) {
				log.Info().Float64("total", total).Bool("pass", pass).Msg("correction submitted")
			},
		},
	})
	if err != nil {
		log.Fatal().Err(err).Msg("create controller")
	}

	if len(sections) == 0 {
		author(ctrl, &sections)
	}
	snapshot(ctx, store, ctrl, cfg.DocTitle, sections)

	must(ctrl.SubmitEditing())
	snapshot(ctx, store, ctrl, cfg.DocTitle, sections)

	respond(ctrl, sections)
	must(ctrl.SubmitResponse("reviewer-1"))
	snapshot(ctx, store, ctrl, cfg.DocTitle, sections)

	review(ctrl, sections)
	must(ctrl.SubmitCorrect())
	snapshot(ctx, store, ctrl, cfg.DocTitle, sections)

	log.Info().Str("document", docID).Float64("total", ctrl.TotalScore()).
		Str("status", string(ctrl.Status())).Msg("lifecycle complete")
}

// author builds the built-in sample: a single-choice and a multiple-choice
// section worth 10 points each, plus an essay for the manual-review path.
func author(ctrl *document.Controller, sections *[]form.Section) {
	role := form.RoleResponder
	for _, typ := range []form.SectionType{form.TypeSingle, form.TypeMultiple, form.TypeEssay} {
		must(ctrl.AddSection(typ))
	}
	ss := *sections

	single := ss[0]
	must(ctrl.EditSection(single.ID, form.Patch{
		Question: strPtr("Which option is correct?"),
		Role:     &role,
		Score:    f64Ptr(10),
		Answer:   single.Options[0].Key,
	}))

	multiple := ss[1]
	must(ctrl.EditSection(multiple.ID, form.Patch{
		Question: strPtr("Pick every correct option."),
		Role:     &role,
		Score:    f64Ptr(10),
		Answer:   []string{multiple.Options[1].Key, multiple.Options[2].Key},
	}))

	essay := ss[2]
	must(ctrl.EditSection(essay.ID, form.Patch{
		Question: strPtr("Explain your reasoning."),
		Role:     &role,
		Score:    f64Ptr(5),
		Answer:   "model answer",
	}))
}

func respond(ctrl *document.Controller, sections []form.Section) {
	ctrl.SetRole(form.RoleResponder)
	for _, s := range sections {
		switch s.Type {
		case form.TypeSingle:
			must(ctrl.SaveResponse(s.ID, s.Options[0].Key))
		case form.TypeMultiple:
			must(ctrl.SaveResponse(s.ID, []string{s.Options[2].Key, s.Options[1].Key}))
		case form.TypeEssay:
			must(ctrl.SaveResponse(s.ID, "because it follows from the premise"))
		}
	}
}

func review(ctrl *document.Controller, sections []form.Section) {
	ctrl.SetRole(form.RoleCorrector)
	for _, s := range sections {
		if s.Type == form.TypeEssay || s.Type == form.TypeField {
			must(ctrl.OverrideReview(s.ID, true))
		}
	}
}

func snapshot(ctx context.Context, store *docstore.Store, ctrl *document.Controller, title string, sections []form.Section) {
	err := store.SaveDocument(ctx, docstore.Document{
		ID:         ctrl.ID(),
		Title:      title,
		Mode:       ctrl.Mode(),
		Status:     ctrl.Status(),
		Sections:   sections,
		TotalScore: ctrl.TotalScore(),
	})
	if err != nil {
		log.Error().Err(err).Msg("save document snapshot")
	}
}

func must(err error) {
	if err != nil {
		log.Fatal().Err(err).Msg("lifecycle action failed")
	}
}

func strPtr(s string) *string   { return &s }
func f64Ptr(f float64) *float64 { return &f }
