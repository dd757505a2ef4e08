package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/memendex/mx/internal/core/domain"
	"github.com/memendex/mx/internal/core/ports"
	"github.com/memendex/mx/internal/core/services"
	"github.com/memendex/mx/pkg/ui"
)

// dashboardCmd represents the dashboard command
var dashboardCmd = &cobra.Command{
	Use:     "dashboard",
	Aliases: []string{"dash"},
	Short:   "Launch interactive dashboard (alias: dash)",
	Long: `Launch a full-screen dashboard for browsing and curating the catalog.

Keyboard Shortcuts:
  Navigation:
    ↑/k ↓/j     Move up / down
    g / G       Jump to top / bottom
    ←/h →/l     Previous / next page

  Actions:
    Enter/e     Edit description and tags
    o           Open item
    y           Copy link or description
    u           Upload a file, link or note
    r           Reload first page

  Views:
    /           Search (Enter to run, at least 3 characters)
    Esc         Leave search / cancel
    ?           Show help

  General:
    q           Quit dashboard
    Ctrl+C      Force quit`,
	RunE: runDashboard,
}

func runDashboard(cmd *cobra.Command, args []string) error {
	ctx := getContext()

	m := newDashboardModel(ctx, dashboardDeps{
		collection:   collectionService,
		capabilities: capabilityService,
		edits:        editService,
		uploads:      uploadService,
		tags:         tagService,
		content:      catalogClient,
	})

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running dashboard: %w", err)
	}

	return nil
}

// Dashboard view modes
type viewMode int

const (
	modeList viewMode = iota
	modeSearch
	modeDetail
	modeUpload
	modeHelp
)

// Fields of the detail editor
const (
	detailFocusDescription = iota
	detailFocusTags
)

// Fields of the upload form, in tab order
var uploadFieldOrder = []domain.UploadField{domain.FieldFile, domain.FieldLink, domain.FieldTitle, ""}

// dashboardDeps are the services the dashboard drives
type dashboardDeps struct {
	collection   *services.CollectionService
	capabilities *services.CapabilityService
	edits        *services.EditService
	uploads      *services.UploadService
	tags         *services.TagService
	content      ports.Downloader
}

// detailState is the editor for one item's description and tags
type detailState struct {
	target      *domain.Item
	description textarea.Model
	tagInput    textinput.Model
	tags        []string
	suggestions []domain.TagUsage
	focus       int
	saving      bool
	// set once the user changes the textarea, which rewrites tabs and CRLF
	descriptionDirty bool
}

// editedDescription is the description to submit
func (d detailState) editedDescription() string {
	if !d.descriptionDirty {
		return d.target.Description
	}
	return d.description.Value()
}

// uploadFormView mirrors services.UploadFormState in text inputs
type uploadFormView struct {
	state     *services.UploadFormState
	inputs    map[domain.UploadField]textinput.Model
	focus     int
	uploading bool
}

// Dashboard model
type dashboardModel struct {
	ctx           context.Context
	deps          dashboardDeps
	env           *domain.ItemPage
	items         []domain.Item
	cursor        int
	offset        int
	mode          viewMode
	searchInput   textinput.Model
	help          help.Model
	keys          keyMap
	width         int
	height        int
	ready         bool
	loading       bool
	message       string
	messageStyle  lipgloss.Style
	messageExpiry time.Time
	thumbs        domain.ExtensionSet
	capUpdates    <-chan domain.ExtensionSet
	unsubscribe   func()
	detail        detailState
	upload        uploadFormView
	preview       viewport.Model
}

// Key bindings
type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Top      key.Binding
	Bottom   key.Binding
	PrevPage key.Binding
	NextPage key.Binding
	Edit     key.Binding
	Open     key.Binding
	Copy     key.Binding
	Upload   key.Binding
	Reload   key.Binding
	Search   key.Binding
	Help     key.Binding
	Quit     key.Binding
	Escape   key.Binding
	Save     key.Binding
	NextCtl  key.Binding
	PrevCtl  key.Binding
	Accept   key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.PrevPage, k.NextPage, k.Edit, k.Search, k.Upload, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Top, k.Bottom, k.PrevPage, k.NextPage},
		{k.Edit, k.Open, k.Copy, k.Upload, k.Reload},
		{k.Search, k.Help, k.Escape, k.Quit},
	}
}

var keys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "move up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "move down"),
	),
	Top: key.NewBinding(
		key.WithKeys("g"),
		key.WithHelp("g", "top"),
	),
	Bottom: key.NewBinding(
		key.WithKeys("G"),
		key.WithHelp("G", "bottom"),
	),
	PrevPage: key.NewBinding(
		key.WithKeys("left", "h"),
		key.WithHelp("←/h", "prev page"),
	),
	NextPage: key.NewBinding(
		key.WithKeys("right", "l"),
		key.WithHelp("→/l", "next page"),
	),
	Edit: key.NewBinding(
		key.WithKeys("enter", "e"),
		key.WithHelp("enter/e", "edit"),
	),
	Open: key.NewBinding(
		key.WithKeys("o"),
		key.WithHelp("o", "open"),
	),
	Copy: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "copy"),
	),
	Upload: key.NewBinding(
		key.WithKeys("u"),
		key.WithHelp("u", "upload"),
	),
	Reload: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reload"),
	),
	Search: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "search"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	Escape: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
	Save: key.NewBinding(
		key.WithKeys("ctrl+s"),
		key.WithHelp("ctrl+s", "save"),
	),
	NextCtl: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next field"),
	),
	PrevCtl: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("shift+tab", "previous field"),
	),
	Accept: key.NewBinding(
		key.WithKeys("ctrl+n"),
		key.WithHelp("ctrl+n", "accept suggestion"),
	),
}

func newDashboardModel(ctx context.Context, deps dashboardDeps) dashboardModel {
	ti := textinput.New()
	ti.Placeholder = "Search descriptions, names and tags..."
	ti.CharLimit = 200
	ti.Width = 50

	vp := viewport.New(80, 20)
	vp.Style = lipgloss.NewStyle().Foreground(ui.ColorDefault)

	var (
		updates     <-chan domain.ExtensionSet
		unsubscribe func()
	)
	if deps.capabilities != nil {
		updates, unsubscribe = deps.capabilities.Subscribe()
	}

	return dashboardModel{
		ctx:         ctx,
		deps:        deps,
		env:         deps.collection.Envelope(),
		items:       deps.collection.Items(),
		mode:        modeList,
		searchInput: ti,
		help:        help.New(),
		keys:        keys,
		thumbs:      domain.NewExtensionSet(),
		preview:     vp,
		upload:      newUploadFormView(),
		capUpdates:  updates,
		unsubscribe: unsubscribe,
	}
}

func newUploadFormView() uploadFormView {
	placeholders := map[domain.UploadField]string{
		domain.FieldFile:  "path/to/file.png",
		domain.FieldLink:  "https://...",
		domain.FieldTitle: "Note title",
		"":                "Description",
	}
	inputs := make(map[domain.UploadField]textinput.Model, len(placeholders))
	for field, ph := range placeholders {
		in := textinput.New()
		in.Placeholder = ph
		in.CharLimit = 1024
		in.Width = 60
		inputs[field] = in
	}
	return uploadFormView{
		state:  services.NewUploadFormState(),
		inputs: inputs,
	}
}

func (m dashboardModel) Init() tea.Cmd {
	m.deps.capabilities.Start(m.ctx)
	return tea.Batch(
		m.runCollection("load", m.deps.collection.Load),
		m.subscribeCapabilities(),
	)
}

func (m dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.ready = true

		previewWidth := (msg.Width / 2) - 4
		previewHeight := msg.Height - 14
		if previewHeight < 6 {
			previewHeight = 6
		}
		m.preview.Width = previewWidth
		m.preview.Height = previewHeight
		if m.mode == modeDetail {
			m.detail.description.SetWidth(msg.Width - 8)
		}
		m.refreshPreview()
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case modeSearch:
			return m.updateSearch(msg)
		case modeDetail:
			return m.updateDetail(msg)
		case modeUpload:
			return m.updateUpload(msg)
		case modeHelp:
			return m.updateHelp(msg)
		case modeList:
			return m.updateList(msg)
		}

	case collectionLoadedMsg:
		m.loading = false
		if msg.err != nil {
			logRemote(m.ctx, msg.trigger, msg.err)
			next := m.setStatus(errorStatus(msg.err), ui.StyleError)
			return m, next
		}
		if msg.moved || msg.trigger != "page" {
			m.syncCollection(true)
		}
		return m, nil

	case capabilitiesMsg:
		m.thumbs = msg.set
		m.refreshPreview()
		if !msg.resolved {
			return m, m.waitCapabilities(msg.updates)
		}
		return m, nil

	case editDoneMsg:
		m.detail.saving = false
		if errors.Is(msg.err, services.ErrNothingToEdit) {
			m.mode = modeList
			next := m.setStatus("Nothing changed", ui.StyleMuted)
			return m, next
		}
		if msg.err != nil {
			logRemote(m.ctx, "edit", msg.err)
			next := m.setStatus(errorStatus(msg.err), ui.StyleError)
			return m, next
		}
		m.mode = modeList
		m.syncCollection(false)
		status := fmt.Sprintf("%s Updated #%d", ui.IconSuccess, msg.item.ID)
		if !msg.onPage {
			status += " (not on this page)"
		}
		next := m.setStatus(status, ui.StyleSuccess)
		return m, next

	case uploadDoneMsg:
		m.upload.uploading = false
		if msg.item == nil {
			logRemote(m.ctx, "upload", msg.err)
			next := m.setStatus(errorStatus(msg.err), ui.StyleError)
			return m, next
		}
		m.syncUploadInputs()
		m.mode = modeList
		m.searchInput.SetValue("")
		m.syncCollection(true)
		if msg.err != nil {
			logRemote(m.ctx, "reload", msg.err)
			next := m.setStatus("Uploaded, but the list could not be refreshed", ui.StyleWarning)
			return m, next
		}
		next := m.setStatus(fmt.Sprintf("%s Uploaded %s #%d", ui.IconUpload, msg.item.Kind, msg.item.ID), ui.StyleSuccess)
		return m, next

	case suggestionsMsg:
		if msg.err != nil {
			logRemote(m.ctx, "tag suggestions", msg.err)
			return m, nil
		}
		// Drop answers for a query the user has already typed past
		if m.mode == modeDetail && msg.query == m.detail.tagInput.Value() {
			m.detail.suggestions = msg.usages
		}
		return m, nil

	case statusMsg:
		next := m.setStatus(msg.message, msg.style)
		return m, next

	case clearMessageMsg:
		if time.Now().After(m.messageExpiry) {
			m.message = ""
		}
		return m, nil
	}

	if m.mode == modeList || m.mode == modeSearch {
		var cmd tea.Cmd
		m.preview, cmd = m.preview.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m dashboardModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
			m.adjustViewport()
			m.refreshPreview()
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.items)-1 {
			m.cursor++
			m.adjustViewport()
			m.refreshPreview()
		}

	case key.Matches(msg, m.keys.Top):
		m.cursor = 0
		m.offset = 0
		m.refreshPreview()

	case key.Matches(msg, m.keys.Bottom):
		if len(m.items) > 0 {
			m.cursor = len(m.items) - 1
			m.adjustViewport()
			m.refreshPreview()
		}

	case msg.Type == tea.KeyPgUp:
		m.preview.ViewUp()

	case msg.Type == tea.KeyPgDown:
		m.preview.ViewDown()

	case key.Matches(msg, m.keys.PrevPage):
		if m.deps.collection.HasPrev() {
			m.loading = true
			return m, m.runPaging(m.deps.collection.PrevPage)
		}

	case key.Matches(msg, m.keys.NextPage):
		if m.deps.collection.HasNext() {
			m.loading = true
			return m, m.runPaging(m.deps.collection.NextPage)
		}

	case key.Matches(msg, m.keys.Edit):
		if item, ok := m.selected(); ok {
			next := m.startDetail(item)
			return m, next
		}

	case key.Matches(msg, m.keys.Open):
		if item, ok := m.selected(); ok {
			return m, m.openItem(item)
		}

	case key.Matches(msg, m.keys.Copy):
		if item, ok := m.selected(); ok {
			return m, m.copyItem(item)
		}

	case key.Matches(msg, m.keys.Upload):
		m.mode = modeUpload
		next := m.focusUploadField(m.upload.focus)
		return m, next

	case key.Matches(msg, m.keys.Reload):
		m.loading = true
		m.searchInput.SetValue("")
		return m, m.runCollection("reset", m.deps.collection.ResetSearch)

	case key.Matches(msg, m.keys.Search):
		m.mode = modeSearch
		m.searchInput.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Help):
		m.mode = modeHelp
	}

	return m, nil
}

func (m dashboardModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch {
	case key.Matches(msg, m.keys.Escape):
		m.mode = modeList
		m.searchInput.Blur()
		if m.deps.collection.Query() != "" || m.searchInput.Value() != "" {
			m.searchInput.SetValue("")
			m.loading = true
			return m, m.runCollection("reset", m.deps.collection.ResetSearch)
		}
		return m, nil

	case msg.Type == tea.KeyEnter:
		query := strings.TrimSpace(m.searchInput.Value())
		if len([]rune(query)) < domain.MinQueryLength {
			next := m.setStatus(fmt.Sprintf("Search needs at least %d characters", domain.MinQueryLength), ui.StyleWarning)
			return m, next
		}
		m.mode = modeList
		m.searchInput.Blur()
		m.loading = true
		return m, m.runCollection("search", func(ctx context.Context) error {
			return m.deps.collection.Search(ctx, query)
		})

	case msg.Type == tea.KeyUp:
		if m.cursor > 0 {
			m.cursor--
			m.adjustViewport()
			m.refreshPreview()
		}

	case msg.Type == tea.KeyDown:
		if m.cursor < len(m.items)-1 {
			m.cursor++
			m.adjustViewport()
			m.refreshPreview()
		}

	default:
		reset := services.IsSearchReset(m.searchInput.Value(), msg.String())
		m.searchInput, cmd = m.searchInput.Update(msg)
		if reset {
			m.loading = true
			return m, tea.Batch(cmd, m.runCollection("reset", m.deps.collection.ResetSearch))
		}
		return m, cmd
	}

	return m, nil
}

func (m dashboardModel) updateHelp(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.Help), key.Matches(msg, m.keys.Quit):
		m.mode = modeList
	}
	return m, nil
}

func (m dashboardModel) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.detail.saving {
		return m, nil
	}

	var cmd tea.Cmd

	switch {
	case msg.Type == tea.KeyCtrlC:
		return m.quit()

	case key.Matches(msg, m.keys.Escape):
		m.mode = modeList
		m.detail.description.Blur()
		m.detail.tagInput.Blur()
		return m, nil

	case key.Matches(msg, m.keys.Save):
		// Pending text in the tag input counts as a tag
		if pending := domain.NormalizeTag(m.detail.tagInput.Value()); pending != "" {
			m.detail.tags = append(m.detail.tags, pending)
			m.detail.tagInput.SetValue("")
		}
		m.detail.saving = true
		return m, m.submitEdit(*m.detail.target, m.detail.editedDescription(), append([]string{}, m.detail.tags...))

	case key.Matches(msg, m.keys.NextCtl), key.Matches(msg, m.keys.PrevCtl):
		if m.detail.focus == detailFocusDescription {
			m.detail.focus = detailFocusTags
			m.detail.description.Blur()
			next := m.detail.tagInput.Focus()
			return m, next
		}
		m.detail.focus = detailFocusDescription
		m.detail.tagInput.Blur()
		next := m.detail.description.Focus()
		return m, next
	}

	if m.detail.focus == detailFocusDescription {
		before := m.detail.description.Value()
		m.detail.description, cmd = m.detail.description.Update(msg)
		if m.detail.description.Value() != before {
			m.detail.descriptionDirty = true
		}
		return m, cmd
	}

	switch {
	case msg.Type == tea.KeyEnter:
		if tag := domain.NormalizeTag(m.detail.tagInput.Value()); tag != "" {
			m.detail.tags = append(m.detail.tags, tag)
		}
		m.detail.tagInput.SetValue("")
		return m, m.fetchSuggestions("")

	case key.Matches(msg, m.keys.Accept):
		if len(m.detail.suggestions) > 0 {
			m.detail.tags = append(m.detail.tags, m.detail.suggestions[0].Tag)
			m.detail.tagInput.SetValue("")
			return m, m.fetchSuggestions("")
		}
		return m, nil

	case msg.Type == tea.KeyBackspace && m.detail.tagInput.Value() == "":
		if n := len(m.detail.tags); n > 0 {
			m.detail.tags = m.detail.tags[:n-1]
		}
		return m, nil
	}

	before := m.detail.tagInput.Value()
	m.detail.tagInput, cmd = m.detail.tagInput.Update(msg)
	if after := m.detail.tagInput.Value(); after != before {
		return m, tea.Batch(cmd, m.fetchSuggestions(after))
	}
	return m, cmd
}

func (m dashboardModel) updateUpload(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.upload.uploading {
		return m, nil
	}

	switch {
	case msg.Type == tea.KeyCtrlC:
		return m.quit()

	case key.Matches(msg, m.keys.Escape):
		m.blurUploadFields()
		m.mode = modeList
		return m, nil

	case key.Matches(msg, m.keys.Save), msg.Type == tea.KeyEnter:
		m.blurUploadFields()
		m.upload.uploading = true
		return m, m.submitUpload()

	case key.Matches(msg, m.keys.NextCtl):
		next := m.focusUploadField(m.nextUploadField(1))
		return m, next

	case key.Matches(msg, m.keys.PrevCtl):
		next := m.focusUploadField(m.nextUploadField(-1))
		return m, next
	}

	field := uploadFieldOrder[m.upload.focus]
	in := m.upload.inputs[field]
	var cmd tea.Cmd
	in, cmd = in.Update(msg)
	m.upload.inputs[field] = in
	m.applyUploadInput(field, in.Value())
	return m, cmd
}

// applyUploadInput pushes a typed value into the form state
func (m *dashboardModel) applyUploadInput(field domain.UploadField, value string) {
	state := m.upload.state
	switch field {
	case domain.FieldFile:
		before := state.Form()
		autoFilled := before.FilePath != "" && before.Description == filepath.Base(before.FilePath)
		state.SetFile(value)
		if autoFilled {
			if value == "" {
				state.SetDescription("")
			} else {
				state.AutoFillDescription(true)
			}
		}
	case domain.FieldLink:
		state.SetLink(value)
	case domain.FieldTitle:
		state.SetTitle(value)
	default:
		state.SetDescription(value)
	}
	m.syncUploadInputs()
}

// syncUploadInputs copies the form state back into the text inputs
func (m *dashboardModel) syncUploadInputs() {
	form := m.upload.state.Form()
	values := map[domain.UploadField]string{
		domain.FieldFile:  form.FilePath,
		domain.FieldLink:  form.Link,
		domain.FieldTitle: form.Title,
		"":                form.Description,
	}
	for field, v := range values {
		in := m.upload.inputs[field]
		if in.Value() != v {
			in.SetValue(v)
			m.upload.inputs[field] = in
		}
	}
}

// nextUploadField returns the next enabled field in direction dir
func (m dashboardModel) nextUploadField(dir int) int {
	n := len(uploadFieldOrder)
	i := m.upload.focus
	for step := 0; step < n; step++ {
		i = (i + dir + n) % n
		field := uploadFieldOrder[i]
		if field == "" || m.upload.state.Enabled(field) {
			return i
		}
	}
	return m.upload.focus
}

func (m *dashboardModel) focusUploadField(i int) tea.Cmd {
	m.blurUploadFields()
	m.upload.focus = i
	field := uploadFieldOrder[i]
	in := m.upload.inputs[field]
	cmd := in.Focus()
	m.upload.inputs[field] = in
	return cmd
}

func (m *dashboardModel) blurUploadFields() {
	for field, in := range m.upload.inputs {
		in.Blur()
		m.upload.inputs[field] = in
	}
}

func (m dashboardModel) View() string {
	if !m.ready {
		return "\n  Loading dashboard..."
	}

	switch m.mode {
	case modeHelp:
		return m.viewHelp()
	case modeDetail:
		return m.viewDetail()
	case modeUpload:
		return m.viewUpload()
	default:
		return m.viewList()
	}
}

func (m dashboardModel) viewList() string {
	listWidth := int(float64(m.width) * 0.5)
	if listWidth < 30 {
		listWidth = 30
	}
	previewWidth := m.width - listWidth - 2

	var s strings.Builder

	s.WriteString(m.renderHeader())
	s.WriteString("\n")
	s.WriteString(m.renderSearchBar())
	s.WriteString("\n\n")

	listContent := m.renderItemList(listWidth)
	if previewWidth < 30 {
		s.WriteString(listContent)
	} else {
		listLines := strings.Split(listContent, "\n")
		previewLines := strings.Split(m.renderPreview(previewWidth), "\n")

		maxLines := len(listLines)
		if len(previewLines) > maxLines {
			maxLines = len(previewLines)
		}
		for i := 0; i < maxLines; i++ {
			var listLine, previewLine string
			if i < len(listLines) {
				listLine = listLines[i]
			}
			if i < len(previewLines) {
				previewLine = previewLines[i]
			}
			s.WriteString(padRight(listLine, listWidth))
			s.WriteString("  ")
			s.WriteString(previewLine)
			s.WriteString("\n")
		}
	}

	s.WriteString("\n")
	s.WriteString(m.renderFooter())
	return s.String()
}

func (m dashboardModel) viewHelp() string {
	var s strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(ui.ColorPrimary).
		Padding(1, 2)

	s.WriteString(titleStyle.Render("mx Dashboard - Keyboard Shortcuts"))
	s.WriteString("\n\n")

	h := m.help
	h.ShowAll = true
	s.WriteString(lipgloss.NewStyle().Padding(0, 2).Render(h.View(m.keys)))
	s.WriteString("\n\n")

	sectionStyle := lipgloss.NewStyle().Foreground(ui.ColorAccent).Bold(true).Padding(0, 2)
	s.WriteString(sectionStyle.Render("Editor"))
	s.WriteString("\n")
	s.WriteString(ui.StyleMuted.Render("  tab switches fields · enter adds a tag · backspace on an empty tag input removes the last tag"))
	s.WriteString("\n")
	s.WriteString(ui.StyleMuted.Render("  ctrl+n accepts the first suggestion · ctrl+s saves · esc cancels"))
	s.WriteString("\n\n")
	s.WriteString(ui.StyleMuted.Render("  Press ESC or ? to return to dashboard"))
	s.WriteString("\n")

	return s.String()
}

func (m dashboardModel) viewDetail() string {
	if m.detail.target == nil {
		return ""
	}
	item := m.detail.target

	var s strings.Builder

	titleStyle := lipgloss.NewStyle().Foreground(ui.ColorPrimary).Bold(true).Padding(1, 2)
	labelStyle := lipgloss.NewStyle().Foreground(ui.ColorAccent).Bold(true).Padding(0, 2)

	s.WriteString(titleStyle.Render(fmt.Sprintf("%s Edit #%d  %s", ui.KindIcon(item.Kind), item.ID, ui.Truncate(item.FileName, 60))))
	s.WriteString("\n")

	s.WriteString(labelStyle.Render("Description"))
	s.WriteString("\n")
	s.WriteString(lipgloss.NewStyle().Padding(0, 2).Render(m.detail.description.View()))
	s.WriteString("\n\n")

	s.WriteString(labelStyle.Render("Tags"))
	s.WriteString("\n  ")
	for _, tag := range m.detail.tags {
		s.WriteString(ui.StyleAccent.Render("[" + tag + "]"))
		s.WriteString(" ")
	}
	s.WriteString(m.detail.tagInput.View())
	s.WriteString("\n")

	if len(m.detail.suggestions) > 0 {
		parts := make([]string, 0, 8)
		for i, u := range m.detail.suggestions {
			if i == 8 {
				break
			}
			parts = append(parts, fmt.Sprintf("%s (%d)", u.Tag, u.Count))
		}
		s.WriteString(ui.StyleMuted.Render("  suggestions: " + strings.Join(parts, "  ")))
		s.WriteString("\n")
	}

	s.WriteString("\n")
	if m.detail.saving {
		s.WriteString(ui.StyleInfo.Render("  Saving..."))
	} else {
		s.WriteString(ui.StyleMuted.Render("  [tab] Switch field  [enter] Add tag  [ctrl+n] Accept suggestion  [ctrl+s] Save  [esc] Cancel"))
	}
	s.WriteString("\n")
	if m.message != "" && time.Now().Before(m.messageExpiry) {
		s.WriteString("  " + m.messageStyle.Render(m.message) + "\n")
	}
	return s.String()
}

func (m dashboardModel) viewUpload() string {
	var s strings.Builder

	titleStyle := lipgloss.NewStyle().Foreground(ui.ColorPrimary).Bold(true).Padding(1, 2)
	s.WriteString(titleStyle.Render(ui.IconUpload + " Upload"))
	s.WriteString("\n")
	s.WriteString(ui.StyleMuted.Render("  Fill one of file, link or title. The others are disabled while it is filled."))
	s.WriteString("\n\n")

	labels := map[domain.UploadField]string{
		domain.FieldFile:  "File",
		domain.FieldLink:  "Link",
		domain.FieldTitle: "Title",
		"":                "Description",
	}
	for i, field := range uploadFieldOrder {
		label := fmt.Sprintf("  %-12s", labels[field])
		in := m.upload.inputs[field]
		enabled := field == "" || m.upload.state.Enabled(field)

		switch {
		case !enabled:
			s.WriteString(ui.StyleMuted.Render(label + "(disabled)"))
		case i == m.upload.focus:
			s.WriteString(ui.StylePrimary.Render(label) + in.View())
		default:
			s.WriteString(ui.StyleAccent.Render(label) + in.View())
		}
		s.WriteString("\n")
	}

	if kind, err := domain.Classify(m.upload.state.Form()); err == nil {
		s.WriteString("\n")
		s.WriteString(ui.StyleInfo.Render(fmt.Sprintf("  Will upload a %s", kind)))
		s.WriteString("\n")
	}

	s.WriteString("\n")
	if m.upload.uploading {
		s.WriteString(ui.StyleInfo.Render("  Uploading..."))
	} else {
		s.WriteString(ui.StyleMuted.Render("  [tab] Next field  [enter/ctrl+s] Upload  [esc] Back"))
	}
	s.WriteString("\n")
	if m.message != "" && time.Now().Before(m.messageExpiry) {
		s.WriteString("  " + m.messageStyle.Render(m.message) + "\n")
	}
	return s.String()
}

func (m dashboardModel) renderHeader() string {
	titleStyle := lipgloss.NewStyle().
		Foreground(ui.ColorPrimary).
		Bold(true).
		Padding(0, 1)

	statsStyle := lipgloss.NewStyle().
		Foreground(ui.ColorMuted).
		Align(lipgloss.Right)

	title := titleStyle.Render("memendex")
	statsText := ui.PagerLabel(m.env)
	if q := m.deps.collection.Query(); q != "" {
		statsText = fmt.Sprintf("results for %q · %s", q, statsText)
	}
	if m.loading {
		statsText = "loading… " + statsText
	}
	stats := statsStyle.Render(statsText)

	spacer := m.width - lipgloss.Width(title) - lipgloss.Width(stats)
	if spacer < 0 {
		spacer = 0
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		title,
		strings.Repeat(" ", spacer),
		stats,
	)
}

func (m dashboardModel) renderSearchBar() string {
	borderColor := ui.ColorMuted
	if m.mode == modeSearch {
		borderColor = ui.ColorPrimary
	}

	width := m.width - 4
	if width < 10 {
		width = 10
	}
	searchStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Padding(0, 1).
		Width(width)

	prompt := ui.StyleMuted.Render("/ ")
	if m.mode == modeSearch {
		prompt = ui.StylePrimary.Render("/ ")
	}

	content := prompt + m.searchInput.View()
	if m.mode != modeSearch && m.searchInput.Value() == "" {
		content = prompt + ui.StyleMuted.Render("Press / to search...")
	}

	return searchStyle.Render(content)
}

func (m dashboardModel) renderItemList(width int) string {
	var s strings.Builder

	if len(m.items) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(ui.ColorMuted).
			Italic(true).
			Padding(2, 2).
			Width(width)

		switch {
		case m.loading:
			s.WriteString(emptyStyle.Render("Loading..."))
		case m.deps.collection.Query() != "":
			s.WriteString(emptyStyle.Render("No items match your search."))
		default:
			s.WriteString(emptyStyle.Render("Nothing here yet. Press 'u' to upload."))
		}
		return s.String()
	}

	start := m.offset
	end := m.offset + m.listHeight()
	if end > len(m.items) {
		end = len(m.items)
	}

	for i := start; i < end; i++ {
		s.WriteString(m.renderItem(m.items[i], i == m.cursor, width))
	}

	return s.String()
}

func (m dashboardModel) renderItem(item domain.Item, selected bool, width int) string {
	cursor := "  "
	titleStyle := lipgloss.NewStyle().Foreground(ui.ColorDefault)
	if selected {
		cursor = ui.StylePrimary.Render("▶ ")
		titleStyle = ui.StylePrimary.Bold(true)
	}

	thumb := " "
	if m.thumbs.Contains(domain.IconExtension(item)) {
		thumb = ui.StyleInfo.Render(ui.IconThumb)
	}

	maxTitle := width - 12
	if maxTitle < 10 {
		maxTitle = 10
	}

	line := fmt.Sprintf("%s%s %s %s",
		cursor,
		ui.KindIcon(item.Kind),
		thumb,
		titleStyle.Render(ui.Truncate(item.Title(), maxTitle)),
	)

	return padRight(line, width) + "\n"
}

func (m dashboardModel) renderPreview(width int) string {
	borderStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ui.ColorMuted).
		Width(width - 2)

	item, ok := m.selected()
	if !ok {
		return borderStyle.Render(
			lipgloss.NewStyle().
				Foreground(ui.ColorMuted).
				Italic(true).
				Padding(1).
				Render("No item selected"),
		)
	}

	var s strings.Builder
	titleStyle := lipgloss.NewStyle().
		Foreground(ui.ColorPrimary).
		Bold(true).
		Width(width - 4)

	s.WriteString(titleStyle.Render(fmt.Sprintf("#%d %s", item.ID, ui.Truncate(item.Title(), width-12))))
	s.WriteString("\n")
	s.WriteString(ui.FormatTags(item.Tags))
	s.WriteString("\n\n")
	s.WriteString(m.preview.View())

	return borderStyle.Render(s.String())
}

func (m dashboardModel) renderFooter() string {
	var statusLine string
	if m.message != "" && time.Now().Before(m.messageExpiry) {
		statusLine = m.messageStyle.Render(m.message)
	} else {
		statusLine = ui.StyleMuted.Render("Ready")
	}

	footerStyle := lipgloss.NewStyle().
		BorderTop(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ui.ColorMuted).
		Padding(0, 1)

	return footerStyle.Render(lipgloss.JoinVertical(
		lipgloss.Left,
		statusLine,
		m.help.View(m.keys),
	))
}

func padRight(s string, width int) string {
	realLen := lipgloss.Width(s)
	if realLen >= width {
		return s
	}
	return s + strings.Repeat(" ", width-realLen)
}

func (m dashboardModel) listHeight() int {
	h := m.height - 10
	if h < 3 {
		h = 3
	}
	return h
}

func (m *dashboardModel) adjustViewport() {
	listHeight := m.listHeight()

	if m.cursor >= m.offset+listHeight {
		m.offset = m.cursor - listHeight + 1
	}
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
}

func (m dashboardModel) selected() (domain.Item, bool) {
	if m.cursor < 0 || m.cursor >= len(m.items) {
		return domain.Item{}, false
	}
	return m.items[m.cursor], true
}

// syncCollection re-reads the displayed page from the collection service.
// Whole-page replacements move the cursor back to the top.
func (m *dashboardModel) syncCollection(replaced bool) {
	m.env = m.deps.collection.Envelope()
	m.items = m.env.Data
	if replaced {
		m.cursor = 0
		m.offset = 0
	}
	if m.cursor >= len(m.items) {
		m.cursor = len(m.items) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.adjustViewport()
	m.refreshPreview()
}

func (m *dashboardModel) refreshPreview() {
	item, ok := m.selected()
	if !ok {
		m.preview.SetContent("")
		return
	}
	content := itemPreview(item)
	if m.thumbs.Contains(domain.IconExtension(item)) {
		content += "\n\n" + ui.StyleMuted.Render("thumbnail available")
	}
	m.preview.SetContent(content)
	m.preview.GotoTop()
}

func (m *dashboardModel) startDetail(item domain.Item) tea.Cmd {
	ta := textarea.New()
	ta.Placeholder = "Description"
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.MaxHeight = 0
	ta.SetWidth(m.width - 8)
	ta.SetHeight(6)
	ta.SetValue(item.Description)

	ti := textinput.New()
	ti.Placeholder = "add tag"
	ti.Prompt = "#"
	ti.CharLimit = 64
	ti.Width = 30

	target := item.Clone()
	m.detail = detailState{
		target:      &target,
		description: ta,
		tagInput:    ti,
		tags:        append([]string{}, item.Tags...),
		focus:       detailFocusDescription,
	}
	m.mode = modeDetail
	return tea.Batch(m.detail.description.Focus(), m.fetchSuggestions(""))
}

// Commands

type statusMsg struct {
	message string
	style   lipgloss.Style
}

type clearMessageMsg struct{}

type collectionLoadedMsg struct {
	trigger string
	moved   bool
	err     error
}

type capabilitiesMsg struct {
	set      domain.ExtensionSet
	resolved bool
	updates  <-chan domain.ExtensionSet
}

type editDoneMsg struct {
	item   *domain.Item
	onPage bool
	err    error
}

type uploadDoneMsg struct {
	item *domain.Item
	err  error
}

type suggestionsMsg struct {
	query  string
	usages []domain.TagUsage
	err    error
}

func (m *dashboardModel) setStatus(message string, style lipgloss.Style) tea.Cmd {
	m.message = message
	m.messageStyle = style
	m.messageExpiry = time.Now().Add(3 * time.Second)
	return tea.Tick(3*time.Second, func(time.Time) tea.Msg { return clearMessageMsg{} })
}

// errorStatus renders an error for the status line, preferring the server's own words
func errorStatus(err error) string {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		return ui.IconWarning + " " + verr.Message
	case errors.Is(err, domain.ErrAmbiguousKind):
		return ui.IconWarning + " Fill exactly one of file, link or title"
	}
	if body := domain.RemoteBody(err); body != "" {
		return ui.IconError + " Server: " + body
	}
	return ui.IconError + " " + err.Error()
}

func (m dashboardModel) runCollection(trigger string, fn func(context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return collectionLoadedMsg{trigger: trigger, err: fn(ctx)}
	}
}

func (m dashboardModel) runPaging(fn func(context.Context) (bool, error)) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		moved, err := fn(ctx)
		return collectionLoadedMsg{trigger: "page", moved: moved, err: err}
	}
}

func (m dashboardModel) subscribeCapabilities() tea.Cmd {
	if m.capUpdates == nil {
		return nil
	}
	return m.waitCapabilities(m.capUpdates)
}

// quit drops the capability subscription and stops the program
func (m dashboardModel) quit() (tea.Model, tea.Cmd) {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
	return m, tea.Quit
}

// waitCapabilities blocks until the next capability value is published
func (m dashboardModel) waitCapabilities(updates <-chan domain.ExtensionSet) tea.Cmd {
	caps := m.deps.capabilities
	return func() tea.Msg {
		set := <-updates
		current, resolved := caps.Current()
		if resolved {
			set = current
		}
		return capabilitiesMsg{set: set, resolved: resolved, updates: updates}
	}
}

func (m dashboardModel) submitEdit(current domain.Item, description string, tags []string) tea.Cmd {
	ctx, edits := m.ctx, m.deps.edits
	return func() tea.Msg {
		item, onPage, err := edits.Submit(ctx, current, description, tags)
		return editDoneMsg{item: item, onPage: onPage, err: err}
	}
}

func (m dashboardModel) submitUpload() tea.Cmd {
	ctx, uploads, state := m.ctx, m.deps.uploads, m.upload.state
	return func() tea.Msg {
		item, err := uploads.Submit(ctx, state)
		return uploadDoneMsg{item: item, err: err}
	}
}

func (m dashboardModel) fetchSuggestions(query string) tea.Cmd {
	ctx, tags, current := m.ctx, m.deps.tags, append([]string{}, m.detail.tags...)
	return func() tea.Msg {
		usages, err := tags.Suggest(ctx, query, current)
		return suggestionsMsg{query: query, usages: usages, err: err}
	}
}

func (m dashboardModel) openItem(item domain.Item) tea.Cmd {
	ctx, content := m.ctx, m.deps.content
	return func() tea.Msg {
		if item.Kind == domain.KindLink {
			if err := OpenFile(item.FileName, ""); err != nil {
				return statusMsg{message: ui.IconError + " " + err.Error(), style: ui.StyleError}
			}
			return statusMsg{message: "Opened " + item.FileName, style: ui.StyleSuccess}
		}

		path := appDirs.GetCachePath(item.ID, item.FileName)
		if _, err := os.Stat(path); err != nil {
			if _, err := fetchContent(ctx, content, item, path, variantOriginal); err != nil {
				logRemote(ctx, "download", err)
				return statusMsg{message: errorStatus(err), style: ui.StyleError}
			}
		}
		if err := OpenFile(path, appConfig.OpenViewer); err != nil {
			return statusMsg{message: ui.IconError + " " + err.Error(), style: ui.StyleError}
		}
		return statusMsg{message: "Opened " + filepath.Base(path), style: ui.StyleSuccess}
	}
}

func (m dashboardModel) copyItem(item domain.Item) tea.Cmd {
	return func() tea.Msg {
		text, _ := clipboardText(item, "auto")
		if err := clipboard.WriteAll(text); err != nil {
			return statusMsg{message: ui.IconWarning + " Clipboard unavailable", style: ui.StyleWarning}
		}
		return statusMsg{message: fmt.Sprintf("%s Copied #%d", ui.IconSuccess, item.ID), style: ui.StyleSuccess}
	}
}
