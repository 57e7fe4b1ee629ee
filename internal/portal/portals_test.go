package portal

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"applyAgent/internal/browser"
	"applyAgent/internal/form"
)

func TestLookupByDomain(t *testing.T) {
	tests := []struct {
		url    string
		portal string
	}{
		{"https://jobs.lever.co/acme/123", "lever"},
		{"https://boards.greenhouse.io/acme/jobs/1", "greenhouse"},
		{"https://job-boards.greenhouse.io/acme/jobs/1", "greenhouse"},
		{"https://jobs.ashbyhq.com/acme/1", "ashby"},
		{"https://jobs.jobvite.com/acme/job/1", "jobvite"},
		{"https://apply.workable.com/acme/j/1", "workable"},
	}
	for _, tt := range tests {
		p, ok := Lookup(tt.url, zap.NewNop())
		require.True(t, ok, tt.url)
		assert.Equal(t, tt.portal, p.Name())
	}

	_, ok := Lookup("https://careers.example.com/jobs/1", zap.NewNop())
	assert.False(t, ok)
}

func TestLeverDiscoverFieldsDefersLocation(t *testing.T) {
	location := newFakeElement("input", map[string]string{"name": "location"})
	email := newFakeElement("input", map[string]string{"name": "email"})

	page := newFakePage()
	page.all["input:not([type='radio']):not([type='checkbox']), textarea, select, ul[data-qa]"] =
		[]browser.Element{location, email}

	fields := NewLever(zap.NewNop()).DiscoverFields(page)

	require.Len(t, fields, 2)
	assert.Same(t, email, fields[0])
	assert.Same(t, location, fields[1])
}

func TestLeverLabelFromQuestionContainer(t *testing.T) {
	labelEl := newFakeElement("div", nil)
	labelEl.text = "Resume/CV"
	labelEl.children[".required"] = newFakeElement("span", nil)

	container := newFakeElement("div", map[string]string{"class": "application-question custom-question"})
	container.children[".application-label"] = labelEl

	field := newFakeElement("input", map[string]string{"type": "file"})
	field.parent = container

	e := newTestEngine(t, newFakePage(), &stubResolver{}, map[string]any{})
	label, required := NewLever(zap.NewNop()).LabelFor(e, field)

	assert.Equal(t, "Resume/CV", label)
	assert.True(t, required)
}

func TestLeverFieldTypeForGroups(t *testing.T) {
	lever := NewLever(zap.NewNop())

	radios := newFakeElement("ul", map[string]string{"data-qa": "radios"})
	checkboxes := newFakeElement("ul", map[string]string{"data-qa": "checkboxes"})
	text := newFakeElement("input", map[string]string{"type": "text"})

	assert.Equal(t, form.TypeSelect, lever.FieldType(radios))
	assert.Equal(t, form.TypeMultiselect, lever.FieldType(checkboxes))
	assert.Equal(t, form.TypeInput, lever.FieldType(text))
}

func TestLeverFillGroupClicksMatchedOption(t *testing.T) {
	makeOption := func(text string) *fakeElement {
		span := newFakeElement("span", nil)
		span.text = text
		label := newFakeElement("label", nil)
		label.children["span.application-answer-alternative"] = span
		return label
	}
	yes := makeOption("Yes")
	no := makeOption("No")

	group := newFakeElement("ul", map[string]string{"data-qa": "radios"})
	group.childList["li label"] = []browser.Element{yes, no}

	q := form.NewQuestion(group, form.TypeSelect, "Are you over 18?", true)
	q.Answer = form.TextAnswer("No")

	e := newTestEngine(t, newFakePage(), &stubResolver{}, map[string]any{})
	ok, err := NewLever(zap.NewNop()).FillChoiceControl(context.Background(), e, q)

	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, no.clicks)
	assert.Equal(t, 0, yes.clicks)
}

func TestGreenhousePortalDetection(t *testing.T) {
	assert.True(t, NewGreenhouse("https://job-boards.greenhouse.io/x", zap.NewNop()).isNew)
	assert.False(t, NewGreenhouse("https://boards.greenhouse.io/x", zap.NewNop()).isNew)
}

func TestGreenhouseFillCheckboxGroup(t *testing.T) {
	makeBox := func(text string) *fakeElement {
		box := newFakeElement("label", nil)
		box.text = text
		return box
	}
	white := makeBox("White")
	asian := makeBox("Asian")
	other := makeBox("Other")

	groupLabel := newFakeElement("label", nil)
	groupLabel.childList["label:has(input[type='checkbox'])"] = []browser.Element{white, asian, other}

	inner := newFakeElement("input", map[string]string{"type": "checkbox"})
	field := newFakeElement("div", map[string]string{"class": "field"})
	field.children["label"] = groupLabel
	field.children["input[type='checkbox']"] = inner

	g := NewGreenhouse("https://boards.greenhouse.io/x", zap.NewNop())
	require.True(t, g.IsChoiceControl(field, ""))
	assert.Equal(t, form.TypeMultiselect, g.FieldType(field))

	q := form.NewQuestion(field, form.TypeMultiselect, "Race", false)
	q.Answer = form.TextAnswer("White, Asian")

	e := newTestEngine(t, newFakePage(), &stubResolver{}, map[string]any{})
	ok, err := g.FillChoiceControl(context.Background(), e, q)

	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, white.clicks)
	assert.Equal(t, 1, asian.clicks)
	assert.Equal(t, 0, other.clicks)
}

func TestAshbyFieldTypes(t *testing.T) {
	ashby := NewAshby(zap.NewNop())

	date := newFakeElement("input", map[string]string{"type": "date"})
	fieldset := newFakeElement("fieldset", nil)
	yesno := newFakeElement("div", map[string]string{"class": "_yesno_x1"})
	dropdown := newFakeElement("input", map[string]string{"aria-haspopup": "listbox"})
	consent := newFakeElement("div", map[string]string{"class": "_phoneNumberConsent_x1"})

	assert.Equal(t, form.TypeDate, ashby.FieldType(date))
	assert.Equal(t, form.TypeSelect, ashby.FieldType(fieldset))
	assert.Equal(t, form.TypeSelect, ashby.FieldType(yesno))
	assert.Equal(t, form.TypeSelect, ashby.FieldType(dropdown))
	assert.Equal(t, form.TypeCheckbox, ashby.FieldType(consent))
}

func TestAshbyFillYesNoContainer(t *testing.T) {
	yes := newFakeElement("button", nil)
	yes.text = "Yes"
	no := newFakeElement("button", nil)
	no.text = "No"

	container := newFakeElement("div", map[string]string{"class": "_yesno_x1"})
	container.childList["button"] = []browser.Element{yes, no}

	q := form.NewQuestion(container, form.TypeSelect, "Do you require sponsorship?", true)
	q.Answer = form.TextAnswer("No")

	e := newTestEngine(t, newFakePage(), &stubResolver{}, map[string]any{})
	ok, err := NewAshby(zap.NewNop()).FillChoiceControl(context.Background(), e, q)

	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, no.clicks)
	assert.Equal(t, 0, yes.clicks)
}

func TestAshbyLabelFromQuestionTitle(t *testing.T) {
	title := newFakeElement("label", map[string]string{"class": "ashby-application-form-question-title required"})
	title.text = "Desired salary"

	wrapper := newFakeElement("div", nil)
	wrapper.children["label.ashby-application-form-question-title"] = title

	fieldset := newFakeElement("fieldset", nil)
	fieldset.parent = wrapper

	e := newTestEngine(t, newFakePage(), &stubResolver{}, map[string]any{})
	label, required := NewAshby(zap.NewNop()).LabelFor(e, fieldset)

	assert.Equal(t, "Desired salary", label)
	assert.True(t, required)
}

func TestWorkableLabelledBy(t *testing.T) {
	labelEl := newFakeElement("span", nil)
	labelEl.text = "Years of experience"

	grandparent := newFakeElement("div", nil)
	grandparent.text = "Years of experience *"
	parent := newFakeElement("div", nil)
	parent.parent = grandparent
	labelEl.parent = parent

	page := newFakePage()
	page.queries["#exp_label_id"] = labelEl

	field := newFakeElement("input", map[string]string{"aria-labelledby": "exp_label_id focus_hint"})

	e := newTestEngine(t, page, &stubResolver{}, map[string]any{})
	label, required := NewWorkable(zap.NewNop()).LabelFor(e, field)

	assert.Equal(t, "Years of experience", label)
	assert.True(t, required)
}

type coverLetterResolver struct {
	stubResolver
	letter string
}

func (c *coverLetterResolver) CoverLetter(context.Context, string) (string, error) {
	return c.letter, nil
}

func TestRunCoverLetterTextareaUsesGeneratedLetter(t *testing.T) {
	field := newFakeElement("textarea", map[string]string{"aria-label": "Cover Letter"})
	resolver := &coverLetterResolver{letter: "Dear Hiring Manager,\n\nI would like to apply.\n\nSincerely,\nIvan"}
	e := newTestEngine(t, newFakePage(), resolver, map[string]any{})

	results := e.Run(context.Background(), &testPortal{fields: []browser.Element{field}})

	require.Len(t, results, 1)
	q := results[0].Question
	assert.Equal(t, form.SectionCoverLetter, q.Section)
	assert.True(t, q.AICustom)
	assert.Equal(t, []string{resolver.letter}, field.typed)
	// Письмо сгенерировано напрямую, общий AI-резолвер не трогается
	assert.Empty(t, resolver.calls)
}

func TestWorkableFillRadioGroup(t *testing.T) {
	yesInput := newFakeElement("input", map[string]string{"type": "radio"})
	noInput := newFakeElement("input", map[string]string{"type": "radio"})
	yesSpan := newFakeElement("span", map[string]string{"id": "radio_label_1"})
	yesSpan.text = "Yes"
	noSpan := newFakeElement("span", map[string]string{"id": "radio_label_2"})
	noSpan.text = "No"

	group := newFakeElement("fieldset", map[string]string{"role": "radiogroup"})
	group.childList["input[type='radio']"] = []browser.Element{yesInput, noInput}
	group.childList["span[id*='radio_label_']"] = []browser.Element{yesSpan, noSpan}

	w := NewWorkable(zap.NewNop())
	require.True(t, w.IsChoiceControl(group, ""))
	assert.Equal(t, form.TypeSelect, w.FieldType(group))

	q := form.NewQuestion(group, form.TypeSelect, "Have you worked here before?", true)
	q.Answer = form.TextAnswer("No")

	e := newTestEngine(t, newFakePage(), &stubResolver{}, map[string]any{})
	ok, err := w.FillChoiceControl(context.Background(), e, q)

	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, noInput.clicks)
	assert.Equal(t, 0, yesInput.clicks)
}
