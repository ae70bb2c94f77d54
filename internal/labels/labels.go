// Package labels resolves user-facing strings (step names, navigation
// actions, display states) through a go-i18n bundle. English messages are
// built in; other languages are loaded from TOML files named <lang>.toml.
package labels

import (
	"fmt"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

// Message IDs
const (
	StepPersonalInfo            = "StepPersonalInfo"
	StepCareerSummary           = "StepCareerSummary"
	StepSkillsExperience        = "StepSkillsExperience"
	StepEducationCertifications = "StepEducationCertifications"
	StepContactInformation      = "StepContactInformation"
	StepGeneration              = "StepGeneration"
	StepReview                  = "StepReview"

	TabEducation     = "TabEducation"
	TabCertification = "TabCertification"

	ActionHome     = "ActionHome"
	ActionBack     = "ActionBack"
	ActionNext     = "ActionNext"
	ActionGenerate = "ActionGenerate"
	ActionDownload = "ActionDownload"
	ActionFindJob  = "ActionFindJob"
	ActionStart    = "ActionStart"

	StateInvalidStep      = "StateInvalidStep"
	StateComponentMissing = "StateComponentMissing"
	NoticeExportFallback  = "NoticeExportFallback"
)

var defaultMessages = []*i18n.Message{
	{ID: StepPersonalInfo, Other: "Personal Information"},
	{ID: StepCareerSummary, Other: "Career Summary"},
	{ID: StepSkillsExperience, Other: "Skills & Experience"},
	{ID: StepEducationCertifications, Other: "Education & Certifications"},
	{ID: StepContactInformation, Other: "Contact Information"},
	{ID: StepGeneration, Other: "AI Resume Generation"},
	{ID: StepReview, Other: "Review & Download"},
	{ID: TabEducation, Other: "Education"},
	{ID: TabCertification, Other: "Certification"},
	{ID: ActionHome, Other: "Home"},
	{ID: ActionBack, Other: "Back"},
	{ID: ActionNext, Other: "Next"},
	{ID: ActionGenerate, Other: "Generate Resume"},
	{ID: ActionDownload, Other: "Download Resume"},
	{ID: ActionFindJob, Other: "Find Your Favorite Job"},
	{ID: ActionStart, Other: "Start Building"},
	{ID: StateInvalidStep, Other: "Invalid Step Number"},
	{ID: StateComponentMissing, Other: "Step {{.Step}} Component Missing"},
	{ID: NoticeExportFallback, Other: "Could not generate {{.Format}}. A plain text resume was downloaded instead."},
}

var defaultsByID = func() map[string]*i18n.Message {
	m := make(map[string]*i18n.Message, len(defaultMessages))
	for _, msg := range defaultMessages {
		m[msg.ID] = msg
	}
	return m
}()

// Catalog localizes message IDs for one language.
type Catalog struct {
	bundle    *i18n.Bundle
	localizer *i18n.Localizer
	lang      string
}

// New builds a catalog for lang. When localeDir is non-empty every *.toml
// file in it is loaded into the bundle.
func New(lang, localeDir string) (*Catalog, error) {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)
	if err := bundle.AddMessages(language.English, defaultMessages...); err != nil {
		return nil, fmt.Errorf("failed to register default messages: %w", err)
	}

	if localeDir != "" {
		files, err := filepath.Glob(filepath.Join(localeDir, "*.toml"))
		if err != nil {
			return nil, fmt.Errorf("failed to list locale files: %w", err)
		}
		for _, file := range files {
			if _, err := bundle.LoadMessageFile(file); err != nil {
				return nil, fmt.Errorf("failed to load locale file %s: %w", filepath.Base(file), err)
			}
		}
	}

	if lang == "" {
		lang = language.English.String()
	}
	return &Catalog{
		bundle:    bundle,
		localizer: i18n.NewLocalizer(bundle, lang),
		lang:      lang,
	}, nil
}

// English returns the built-in English catalog.
func English() *Catalog {
	c, err := New("en", "")
	if err != nil {
		panic(err)
	}
	return c
}

// Language returns the requested language tag.
func (c *Catalog) Language() string { return c.lang }

// Text localizes id. Missing translations fall back to English, unknown
// ids are returned unchanged.
func (c *Catalog) Text(id string, data map[string]any) string {
	def, known := defaultsByID[id]
	if !known {
		return id
	}

	msg, err := c.localizer.Localize(&i18n.LocalizeConfig{
		MessageID:      id,
		DefaultMessage: def,
		TemplateData:   data,
	})
	if msg == "" && err != nil {
		return def.Other
	}
	return msg
}
