package main

import (
	"flag"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/kalashnikxvxiii-collab/StegVault/internal/config"
	"github.com/kalashnikxvxiii-collab/StegVault/internal/vault"
	"github.com/kalashnikxvxiii-collab/StegVault/pkg/stegvault"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	maskedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD787"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type tuiState int

const (
	stateBrowse tuiState = iota
	stateSearch
	stateForm
	stateConfirmRemove
)

// Form field order. Name stays read-only when editing an existing entry.
const (
	fieldName = iota
	fieldUsername
	fieldPassword
	fieldURL
	fieldNotes
	fieldCount
)

type savedMsg struct {
	err error
}

type vaultModel struct {
	vault      *vault.Vault
	imagePath  string
	outPath    string
	passphrase []byte
	opts       *stegvault.Options

	visible  []vault.Entry
	selected int
	state    tuiState
	editName string
	inputs   []textinput.Model
	focusIdx int
	search   textinput.Model
	filter   string
	showPass bool
	status   string
	err      error
	dirty    bool
}

func newVaultModel(v *vault.Vault, imagePath, outPath string, passphrase []byte, opts *stegvault.Options) *vaultModel {
	search := textinput.New()
	search.Prompt = "Search: "
	search.Width = 40
	m := &vaultModel{
		vault:      v,
		imagePath:  imagePath,
		outPath:    outPath,
		passphrase: passphrase,
		opts:       opts,
		search:     search,
	}
	m.refresh()
	return m
}

// refresh recomputes the visible entry list from the current filter. The
// selection is clamped so it always points at a real entry.
func (m *vaultModel) refresh() {
	if m.filter == "" {
		m.visible = m.visible[:0]
		for _, name := range m.vault.Names() {
			e, _ := m.vault.Get(name)
			m.visible = append(m.visible, e)
		}
	} else {
		m.visible = m.vault.Search(m.filter)
	}
	if m.selected >= len(m.visible) {
		m.selected = len(m.visible) - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
}

func (m *vaultModel) Init() tea.Cmd {
	return nil
}

func (m *vaultModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.state {
		case stateBrowse:
			return m.updateBrowse(msg)
		case stateSearch:
			return m.updateSearch(msg)
		case stateForm:
			return m.updateForm(msg)
		case stateConfirmRemove:
			return m.updateConfirmRemove(msg)
		}

	case savedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.status = ""
		} else {
			m.dirty = false
			m.err = nil
			m.status = "Saved to " + m.outPath
		}
	}
	return m, nil
}

func (m *vaultModel) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit

	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}
		m.showPass = false

	case "down", "j":
		if m.selected < len(m.visible)-1 {
			m.selected++
		}
		m.showPass = false

	case "v":
		if len(m.visible) > 0 {
			m.showPass = !m.showPass
		}

	case "/":
		m.state = stateSearch
		m.search.SetValue(m.filter)
		m.search.Focus()

	case "a":
		m.openForm(vault.Entry{}, "")

	case "e":
		if len(m.visible) > 0 {
			e := m.visible[m.selected]
			m.openForm(e, e.Name)
		}

	case "d":
		if len(m.visible) > 0 {
			m.state = stateConfirmRemove
		}

	case "s":
		m.status = "Saving..."
		m.err = nil
		return m, m.saveVault

	case "esc":
		if m.filter != "" {
			m.filter = ""
			m.refresh()
		}
	}
	return m, nil
}

func (m *vaultModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.filter = strings.TrimSpace(m.search.Value())
		m.search.Blur()
		m.state = stateBrowse
		m.selected = 0
		m.refresh()
		return m, nil

	case "esc":
		m.search.Blur()
		m.state = stateBrowse
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

func (m *vaultModel) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		if err := m.submitForm(); err != nil {
			m.err = err
			return m, nil
		}
		m.state = stateBrowse
		m.inputs = nil
		m.err = nil
		m.dirty = true
		m.refresh()
		return m, nil

	case "tab", "down":
		m.cycleField(1)
		return m, nil

	case "shift+tab", "up":
		m.cycleField(-1)
		return m, nil

	case "esc":
		m.state = stateBrowse
		m.inputs = nil
		m.err = nil
		return m, nil
	}

	var cmds []tea.Cmd
	for i := range m.inputs {
		var cmd tea.Cmd
		m.inputs[i], cmd = m.inputs[i].Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m *vaultModel) updateConfirmRemove(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y":
		name := m.visible[m.selected].Name
		if err := m.vault.Remove(name); err != nil {
			m.err = err
		} else {
			m.status = fmt.Sprintf("Removed %q", name)
			m.dirty = true
		}
		m.state = stateBrowse
		m.refresh()

	case "n", "esc":
		m.state = stateBrowse
	}
	return m, nil
}

func (m *vaultModel) openForm(e vault.Entry, editName string) {
	m.editName = editName
	m.inputs = make([]textinput.Model, fieldCount)
	prompts := [fieldCount]string{"Name: ", "Username: ", "Password: ", "URL: ", "Notes: "}
	values := [fieldCount]string{e.Name, e.Username, e.Password, e.URL, e.Notes}
	for i := range m.inputs {
		ti := textinput.New()
		ti.Prompt = prompts[i]
		ti.Width = 40
		ti.SetValue(values[i])
		m.inputs[i] = ti
	}
	if editName != "" {
		m.focusField(fieldUsername)
	} else {
		m.focusField(fieldName)
	}
	m.state = stateForm
}

func (m *vaultModel) focusField(idx int) {
	m.inputs[m.focusIdx].Blur()
	m.focusIdx = idx
	m.inputs[m.focusIdx].Focus()
}

// cycleField moves focus by delta, skipping the name field when it is fixed
// by an edit.
func (m *vaultModel) cycleField(delta int) {
	first := fieldName
	if m.editName != "" {
		first = fieldUsername
	}
	n := len(m.inputs) - first
	idx := first + ((m.focusIdx-first+delta)%n+n)%n
	m.focusField(idx)
}

func (m *vaultModel) submitForm() error {
	e := vault.Entry{
		Name:     strings.TrimSpace(m.inputs[fieldName].Value()),
		Username: m.inputs[fieldUsername].Value(),
		Password: m.inputs[fieldPassword].Value(),
		URL:      m.inputs[fieldURL].Value(),
		Notes:    m.inputs[fieldNotes].Value(),
	}
	if m.editName != "" {
		if prev, ok := m.vault.Get(m.editName); ok {
			e.TOTPSecret = prev.TOTPSecret
			e.Tags = prev.Tags
		}
		if err := m.vault.Update(m.editName, e); err != nil {
			return err
		}
		m.status = fmt.Sprintf("Updated %q", m.editName)
		return nil
	}
	if err := m.vault.Add(e); err != nil {
		return err
	}
	m.status = fmt.Sprintf("Added %q", e.Name)
	return nil
}

// saveVault re-embeds the vault into the carrier. The stego image itself is
// a valid carrier; only its LSBs change.
func (m *vaultModel) saveVault() tea.Msg {
	return savedMsg{err: stegvault.CreateFile(m.imagePath, m.outPath, m.passphrase, m.vault, m.opts)}
}

func (m *vaultModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("StegVault"))
	b.WriteString(" ")
	b.WriteString(m.imagePath)
	if m.dirty {
		b.WriteString(" ")
		b.WriteString(maskedStyle.Render("[unsaved]"))
	}
	b.WriteString("\n\n")

	switch m.state {
	case stateSearch:
		b.WriteString(m.search.View())
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter filter • esc cancel"))

	case stateForm:
		if m.editName != "" {
			b.WriteString(fmt.Sprintf("Edit entry %q\n\n", m.editName))
		} else {
			b.WriteString("New entry\n\n")
		}
		start := fieldName
		if m.editName != "" {
			start = fieldUsername
		}
		for i := start; i < len(m.inputs); i++ {
			b.WriteString(m.inputs[i].View())
			b.WriteString("\n")
		}
		b.WriteString("\n")
		if m.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
			b.WriteString("\n")
		}
		b.WriteString(helpStyle.Render("tab next field • enter save • esc cancel"))

	case stateConfirmRemove:
		b.WriteString(fmt.Sprintf("Remove entry %q? ", m.visible[m.selected].Name))
		b.WriteString(helpStyle.Render("y confirm • n cancel"))

	default:
		m.viewBrowse(&b)
	}

	return b.String()
}

func (m *vaultModel) viewBrowse(b *strings.Builder) {
	if m.filter != "" {
		fmt.Fprintf(b, "Filter: %q (%d of %d entries)\n\n", m.filter, len(m.visible), len(m.vault.Entries))
	} else {
		fmt.Fprintf(b, "Entries (%d)\n\n", len(m.visible))
	}

	if len(m.visible) == 0 {
		b.WriteString(helpStyle.Render("No entries. Press a to add one."))
		b.WriteString("\n")
	}
	for i, e := range m.visible {
		line := e.Name
		if len(e.Tags) > 0 {
			line += " [" + strings.Join(e.Tags, ", ") + "]"
		}
		if i == m.selected {
			b.WriteString(selectedStyle.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}

	if len(m.visible) > 0 {
		b.WriteString("\n")
		m.viewDetail(b, m.visible[m.selected])
	}

	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n")
	} else if m.status != "" {
		b.WriteString(statusStyle.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render("↑/↓ select • v show/hide password • / search • a add • e edit • d remove • s save • q quit"))
}

func (m *vaultModel) viewDetail(b *strings.Builder, e vault.Entry) {
	password := strings.Repeat("*", len(e.Password))
	if m.showPass {
		password = e.Password
	}
	fmt.Fprintf(b, "%s %s\n", labelStyle.Render("Entry:"), e.Name)
	if e.Username != "" {
		fmt.Fprintf(b, "%s %s\n", labelStyle.Render("Username:"), e.Username)
	}
	fmt.Fprintf(b, "%s %s\n", labelStyle.Render("Password:"), maskedStyle.Render(password))
	if e.URL != "" {
		fmt.Fprintf(b, "%s %s\n", labelStyle.Render("URL:"), e.URL)
	}
	if e.Notes != "" {
		fmt.Fprintf(b, "%s %s\n", labelStyle.Render("Notes:"), e.Notes)
	}
	if e.TOTPSecret != "" {
		fmt.Fprintf(b, "%s configured\n", labelStyle.Render("TOTP:"))
	}
}

func cmdUI(cfg *config.Config, logger *zap.Logger, args []string) error {
	fs := flag.NewFlagSet("ui", flag.ExitOnError)
	image := fs.String("image", "", "stego image file")
	out := fs.String("out", "", "output stego image file (default: overwrite input)")
	fs.Parse(args)
	if *image == "" {
		return fmt.Errorf("ui: -image is required")
	}
	if *out == "" {
		*out = *image
	}

	pass, err := readPassphrase("Passphrase: ")
	if err != nil {
		return err
	}
	opts := options(cfg, logger, "")
	v, err := stegvault.OpenFile(*image, pass, opts)
	if err != nil {
		return err
	}

	p := tea.NewProgram(newVaultModel(v, *image, *out, pass, opts), tea.WithAltScreen())
	_, err = p.Run()
	return err
}
