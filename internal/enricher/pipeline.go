package enricher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/linkword/linkword-backend/internal/domain"
	"github.com/linkword/linkword-backend/internal/llm"
)

// wordStore is the persistence surface the pipeline needs.
type wordStore interface {
	// FindByHeadwordAndLanguage returns the stored word whose normalized
	// headword exactly matches, or domain.ErrNotFound.
	FindByHeadwordAndLanguage(ctx context.Context, headword string, lang domain.Language) (*domain.Word, error)
	// Save upserts the word and returns the persisted row.
	Save(ctx context.Context, w *domain.Word) (*domain.Word, error)
}

// generator is the structured-generation surface the pipeline needs.
type generator interface {
	GenerateJSON(ctx context.Context, req llm.Request) (json.RawMessage, *llm.ResultError)
	// ModelFor reports the model a call with the given provider and
	// model selection actually runs on.
	ModelFor(provider, model string) string
}

// Input names one word to enrich for one source/target language pair.
type Input struct {
	Headword   string
	SourceLang domain.Language
	TargetLang domain.Language
	Categories []string

	Provider string // "" uses the client default
	Model    string // "" uses the provider default

	// ForceReenrich regenerates content that would otherwise be kept.
	ForceReenrich bool

	// Batch tags the run in the word's enrichment history.
	Batch string
}

func (in *Input) validate() error {
	var fields []domain.FieldError
	if domain.NormalizeHeadword(in.Headword) == "" {
		fields = append(fields, domain.FieldError{Field: "headword", Message: "must not be empty"})
	}
	if !in.SourceLang.IsValid() {
		fields = append(fields, domain.FieldError{Field: "source_lang", Message: "invalid language code"})
	}
	if !in.TargetLang.IsValid() {
		fields = append(fields, domain.FieldError{Field: "target_lang", Message: "invalid language code"})
	}
	if in.SourceLang == in.TargetLang && in.SourceLang.IsValid() {
		fields = append(fields, domain.FieldError{Field: "target_lang", Message: "must differ from source_lang"})
	}
	if len(fields) > 0 {
		return domain.NewValidationErrors(fields)
	}
	return nil
}

// Pipeline runs the multi-step enrichment flow for single words.
type Pipeline struct {
	log   *slog.Logger
	store wordStore
	gen   generator
	cfg   Config
}

func NewPipeline(log *slog.Logger, store wordStore, gen generator, cfg Config) *Pipeline {
	return &Pipeline{
		log:   log.With("component", "enricher"),
		store: store,
		gen:   gen,
		cfg:   cfg.normalized(),
	}
}

// Run enriches one word and persists the result. A non-nil error means
// nothing was written. Partial content failures (one sense, one chain)
// are logged and skipped; the run fails outright only when sense
// discovery, final validation, or persistence fails.
func (p *Pipeline) Run(ctx context.Context, in Input) (word *domain.Word, err error) {
	step := "validate_input"
	defer func() {
		if r := recover(); r != nil {
			p.log.ErrorContext(ctx, "enrichment panicked",
				slog.String("headword", in.Headword),
				slog.String("step", step),
				slog.Any("panic", r),
			)
			word, err = nil, fmt.Errorf("enrichment panicked at step %s: %v", step, r)
		}
	}()

	if err := in.validate(); err != nil {
		return nil, err
	}
	headword := domain.NormalizeHeadword(in.Headword)
	log := p.log.With(
		slog.String("headword", headword),
		slog.String("source_lang", string(in.SourceLang)),
		slog.String("target_lang", string(in.TargetLang)),
		slog.Bool("force", in.ForceReenrich),
	)
	log.InfoContext(ctx, "enrichment started")

	// Step 1: load the existing record or start fresh. Lookup errors are
	// treated as not-found so a degraded read path never blocks a run.
	step = "load_or_init"
	draft := p.loadOrInit(ctx, log, headword, in)

	// Step 2: core details and sense discovery. Skipped when the stored
	// record already carries senses and the run is not forced.
	step = "core_details"
	identities := draft.senseIdentities(in.SourceLang)
	if len(identities) == 0 || in.ForceReenrich {
		identities, err = p.runCoreDetails(ctx, log, draft, in)
		if err != nil {
			return nil, err
		}
	} else {
		log.InfoContext(ctx, "sense discovery skipped, reusing stored senses",
			slog.Int("senses", len(identities)))
	}

	// Step 3: headword-level material for the target language.
	step = "core_language_details"
	if in.ForceReenrich || draft.missingCoreLanguageData(in.TargetLang) {
		p.runCoreLanguageDetails(ctx, log, draft, in)
	}

	// Steps 4a and 4b per sense. The working set is the union of the
	// discovery identities and the senses the draft already holds; a
	// forced rediscovery that rephrases a description must not leave the
	// stored sense unvisited with stale chains.
	for _, id := range draft.workingSetIdentities(identities, in.SourceLang) {
		sense := draft.mergeOrCreateSense(id, in.SourceLang)

		step = "sense_details"
		if in.ForceReenrich || senseNeedsDetails(sense, in.TargetLang) {
			p.runSenseDetails(ctx, log, draft, sense, id, in)
		}

		step = "link_chains"
		p.runLinkChains(ctx, log, draft, sense, id, in)
	}

	// Step 5: freeze and validate.
	step = "assemble"
	now := time.Now().UTC()
	draft.EnrichmentHistory = append(draft.EnrichmentHistory, domain.EnrichmentInfo{
		BatchID:   in.Batch,
		Timestamp: now,
		Tags:      enrichmentTags(in),
	})
	final := draft.toWord(now)
	if verr := domain.ValidateWord(final); verr != nil {
		log.ErrorContext(ctx, "assembled word failed validation", slog.String("error", verr.Error()))
		return nil, verr
	}

	// Step 6: persist.
	step = "persist"
	saved, err := p.store.Save(ctx, final)
	if err != nil {
		log.ErrorContext(ctx, "persist failed", slog.String("error", err.Error()))
		return nil, fmt.Errorf("save word: %w", err)
	}

	log.InfoContext(ctx, "enrichment finished",
		slog.String("word_id", saved.WordID.String()),
		slog.Int("senses", len(saved.Senses)),
	)
	return saved, nil
}

func (p *Pipeline) loadOrInit(ctx context.Context, log *slog.Logger, headword string, in Input) *WordDraft {
	existing, err := p.store.FindByHeadwordAndLanguage(ctx, headword, in.SourceLang)
	switch {
	case err == nil:
		log.InfoContext(ctx, "existing record loaded",
			slog.String("word_id", existing.WordID.String()),
			slog.Int("senses", len(existing.Senses)),
		)
		d := draftFromWord(existing)
		d.Categories = mergeCategories(d.Categories, in.Categories)
		return d
	case errors.Is(err, domain.ErrNotFound):
	default:
		log.WarnContext(ctx, "word lookup failed, starting fresh",
			slog.String("error", err.Error()))
	}
	return newDraft(headword, in.SourceLang, in.Categories)
}

func (p *Pipeline) runCoreDetails(ctx context.Context, log *slog.Logger, draft *WordDraft, in Input) ([]SenseIdentity, error) {
	raw, rerr := p.gen.GenerateJSON(ctx, llm.Request{
		Prompt:      buildCorePrompt(draft.Headword, in.SourceLang),
		Provider:    in.Provider,
		Model:       in.Model,
		Temperature: p.cfg.CoreTemperature,
		SchemaName:  schemaNameCoreDetails,
		SchemaCheck: schemaCheckFor[CoreDetailsOutput](),
	})
	if rerr != nil {
		log.ErrorContext(ctx, "sense discovery failed", slog.String("reason", string(rerr.Reason)))
		return nil, fmt.Errorf("core details: %w", rerr)
	}
	out, err := decodeStrict[CoreDetailsOutput](raw)
	if err != nil {
		return nil, fmt.Errorf("core details: %w", err)
	}

	applyCoreDetails(draft, out, in.ForceReenrich)
	for _, id := range out.Senses {
		draft.mergeOrCreateSense(id, in.SourceLang)
	}
	log.InfoContext(ctx, "senses discovered", slog.Int("count", len(out.Senses)))
	return out.Senses, nil
}

func (p *Pipeline) runCoreLanguageDetails(ctx context.Context, log *slog.Logger, draft *WordDraft, in Input) {
	raw, rerr := p.gen.GenerateJSON(ctx, llm.Request{
		Prompt:      buildCoreLanguagePrompt(draft.Headword, in.SourceLang, in.TargetLang),
		Provider:    in.Provider,
		Model:       in.Model,
		Temperature: p.cfg.CoreTemperature,
		SchemaName:  schemaNameCoreLangDetails,
		SchemaCheck: schemaCheckFor[CoreLanguageDetailsOutput](),
	})
	if rerr != nil {
		log.WarnContext(ctx, "core language details failed, continuing without",
			slog.String("reason", string(rerr.Reason)))
		return
	}
	out, err := decodeStrict[CoreLanguageDetailsOutput](raw)
	if err != nil {
		log.WarnContext(ctx, "core language details undecodable, continuing without",
			slog.String("error", err.Error()))
		return
	}
	mergeCoreLanguageDetails(draft, out, in.TargetLang, in.ForceReenrich)
}

func (p *Pipeline) runSenseDetails(ctx context.Context, log *slog.Logger, draft *WordDraft, sense *SenseDraft, id SenseIdentity, in Input) {
	raw, rerr := p.gen.GenerateJSON(ctx, llm.Request{
		Prompt:      buildSensePrompt(draft.Headword, in.SourceLang, in.TargetLang, id),
		Provider:    in.Provider,
		Model:       in.Model,
		Temperature: p.cfg.SenseTemperature,
		SchemaName:  schemaNameSenseDetails,
		SchemaCheck: schemaCheckFor[SenseDetailsOutput](),
	})
	if rerr != nil {
		log.WarnContext(ctx, "sense details failed, keeping sense skeleton",
			slog.String("sense", id.BriefDescription),
			slog.String("reason", string(rerr.Reason)))
		return
	}
	out, err := decodeStrict[SenseDetailsOutput](raw)
	if err != nil {
		log.WarnContext(ctx, "sense details undecodable, keeping sense skeleton",
			slog.String("sense", id.BriefDescription),
			slog.String("error", err.Error()))
		return
	}
	applySenseDetails(sense, out, in.TargetLang, in.ForceReenrich)
}

func (p *Pipeline) runLinkChains(ctx context.Context, log *slog.Logger, draft *WordDraft, sense *SenseDraft, id SenseIdentity, in Input) {
	if in.ForceReenrich {
		dropChainsForLanguage(sense, in.TargetLang)
	}
	need := p.cfg.MaxChainsPerSense - countChainsForLanguage(sense, in.TargetLang)
	if need <= 0 {
		return
	}

	prompt := buildChainPrompt(draft.Headword, in.SourceLang, in.TargetLang, id, need)
	raw, rerr := p.gen.GenerateJSON(ctx, llm.Request{
		Prompt:      prompt,
		Provider:    in.Provider,
		Model:       in.Model,
		Temperature: p.cfg.ChainTemperature,
		SchemaName:  schemaNameLinkChains,
		SchemaCheck: schemaCheckFor[LinkChainsOutput](),
	})
	if rerr != nil {
		log.WarnContext(ctx, "link chain generation failed, keeping existing chains",
			slog.String("sense", id.BriefDescription),
			slog.String("reason", string(rerr.Reason)))
		return
	}
	out, err := decodeStrict[LinkChainsOutput](raw)
	if err != nil {
		log.WarnContext(ctx, "link chains undecodable, keeping existing chains",
			slog.String("sense", id.BriefDescription),
			slog.String("error", err.Error()))
		return
	}

	// Placeholders carry the model that actually ran, provider default
	// included when the input names none.
	model := p.gen.ModelFor(in.Provider, in.Model)
	added := 0
	for _, c := range out.LinkChains {
		if added >= need {
			break
		}
		chain, err := assembleLinkChain(log, c, in.TargetLang, prompt, model)
		if err != nil {
			log.WarnContext(ctx, "dropping malformed link chain",
				slog.String("sense", id.BriefDescription),
				slog.String("error", err.Error()))
			continue
		}
		sense.LinkChainVariations = append(sense.LinkChainVariations, *chain)
		added++
	}
	log.InfoContext(ctx, "link chains added",
		slog.String("sense", id.BriefDescription),
		slog.Int("added", added),
		slog.Int("requested", need),
	)
}

// senseIdentities reconstructs the discovery identities of the senses a
// draft already holds, so a skipped discovery step can still drive the
// per-sense steps.
func (d *WordDraft) senseIdentities(sourceLang domain.Language) []SenseIdentity {
	var ids []SenseIdentity
	for _, s := range d.Senses {
		def := s.definitionFor(sourceLang)
		if def == "" {
			continue
		}
		ids = append(ids, SenseIdentity{PartOfSpeech: s.PartOfSpeech, BriefDescription: def})
	}
	return ids
}

// workingSetIdentities extends ids with the identities of senses the
// draft already holds that ids does not cover. The per-sense steps run
// over every sense in the working set, including stored senses a fresh
// discovery no longer names.
func (d *WordDraft) workingSetIdentities(ids []SenseIdentity, sourceLang domain.Language) []SenseIdentity {
	for _, stored := range d.senseIdentities(sourceLang) {
		covered := false
		for _, id := range ids {
			if sameIdentity(id, stored) {
				covered = true
				break
			}
		}
		if !covered {
			ids = append(ids, stored)
		}
	}
	return ids
}

// missingCoreLanguageData reports whether any of the four per-language
// maps lacks an entry for the target language.
func (d *WordDraft) missingCoreLanguageData(lang domain.Language) bool {
	if _, ok := d.Etymology[lang]; !ok {
		return true
	}
	if _, ok := d.Collocations[lang]; !ok {
		return true
	}
	if _, ok := d.SemanticRelations[lang]; !ok {
		return true
	}
	if _, ok := d.UsageNotes[lang]; !ok {
		return true
	}
	return false
}

// senseNeedsDetails reports whether a sense lacks both a target-language
// definition and target-language translations.
func senseNeedsDetails(s *SenseDraft, lang domain.Language) bool {
	return s.definitionFor(lang) == "" && len(s.Translations[lang]) == 0
}

func enrichmentTags(in Input) []string {
	tags := []string{"target:" + string(in.TargetLang)}
	if in.Provider != "" {
		tags = append(tags, "provider:"+in.Provider)
	}
	if in.ForceReenrich {
		tags = append(tags, "force")
	}
	return tags
}

func mergeCategories(existing, extra []string) []string {
	seen := make(map[string]struct{}, len(existing))
	out := append([]string(nil), existing...)
	for _, c := range existing {
		seen[c] = struct{}{}
	}
	for _, c := range extra {
		if _, ok := seen[c]; !ok {
			seen[c] = struct{}{}
			out = append(out, c)
		}
	}
	return out
}
