// Package app is the terminal dashboard: a sessions tab grouped by worktree
// and directory, and a changes tab listing a worktree's diff entries, each
// with a detail pane for the selected row.
package app

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"agentdev/internal/client"
	"agentdev/internal/detailcache"
	"agentdev/internal/diff"
	"agentdev/internal/logging"
	"agentdev/internal/rowmodel"
	"agentdev/internal/sessionindex"
	"agentdev/internal/types"
)

type SnapshotSource interface {
	Load(ctx context.Context) (*client.Snapshot, error)
}

type GitSource interface {
	WorktreeGit(ctx context.Context, worktreeID string) (*types.WorktreeGitDetails, error)
}

type Options struct {
	Context         context.Context
	Snapshots       SnapshotSource
	Git             GitSource
	Cache           *detailcache.Cache
	Logger          logging.Logger
	DetailMode      types.DetailMode
	RefreshInterval time.Duration
}

type tab int

const (
	tabSessions tab = iota
	tabChanges
)

func (t tab) label() string {
	if t == tabChanges {
		return "Changes"
	}
	return "Sessions"
}

const (
	defaultWidth       = 100
	defaultHeight      = 30
	cacheEventBuffer   = 64
	openPreviewLimit   = 3
	minListWidth       = 30
	chromeHeaderLines  = 3
	chromeFooterLines  = 2
	detailBorderWidth  = 2
	detailPaddingWidth = panePaddingHorizontal * 2
)

type Model struct {
	ctx       context.Context
	snapshots SnapshotSource
	git       GitSource
	cache     *detailcache.Cache
	logger    logging.Logger
	keys      keyMap
	now       func() time.Time

	refreshInterval time.Duration

	width  int
	height int
	tab    tab
	mode   types.DetailMode

	snapshot *client.Snapshot
	index    *sessionindex.Index
	groupID  string

	search    textinput.Model
	searching bool

	sessions       *rowmodel.Model[types.SessionSummary]
	sessionCursor  string
	sessionsOffset int

	worktreeID    string
	gitDetails    *types.WorktreeGitDetails
	gitErr        string
	entries       []diff.Entry
	changes       *rowmodel.Model[diff.Entry]
	changeCursor  string
	changesOffset int

	detail          viewport.Model
	detailSelection string
	spinner         spinner.Model
	loading         bool
	gitLoading      bool
	inspected       detailcache.Key
	hasInspect      bool
	status          string
	statusError     bool

	cacheEvents   chan detailcache.Key
	unsubscribe   func()
	requestScopes map[string]requestScope
}

func NewModel(opts Options) *Model {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Nop()
	}
	mode := opts.DetailMode
	if _, ok := types.ParseDetailMode(string(mode)); !ok {
		mode = types.DetailModeUserOnly
	}
	cache := opts.Cache
	if cache == nil {
		cache = detailcache.New(nil)
	}

	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "filter"
	search.CharLimit = 200

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = detailLoadingStyle

	m := &Model{
		ctx:             opts.Context,
		snapshots:       opts.Snapshots,
		git:             opts.Git,
		cache:           cache,
		logger:          logger,
		keys:            defaultKeyMap(),
		now:             time.Now,
		refreshInterval: opts.RefreshInterval,
		width:           defaultWidth,
		height:          defaultHeight,
		mode:            mode,
		groupID:         sessionindex.AllGroupID,
		search:          search,
		sessions:        rowmodel.NewModel(rowmodel.SessionKey),
		changes:         rowmodel.NewModel(rowmodel.DiffEntryKey),
		detail:          viewport.New(defaultWidth/2, defaultHeight-chromeHeaderLines-chromeFooterLines),
		spinner:         spin,
		cacheEvents:     make(chan detailcache.Key, cacheEventBuffer),
		requestScopes:   map[string]requestScope{},
	}
	m.unsubscribe = cache.Subscribe(func(key detailcache.Key) {
		select {
		case m.cacheEvents <- key:
		default:
			// A render is already queued; it will read the latest state.
		}
	})
	m.resize(m.width, m.height)
	return m
}

func (m *Model) Init() tea.Cmd {
	m.loading = m.snapshots != nil
	return tea.Batch(
		m.spinner.Tick,
		loadSnapshotCmd(m.replaceRequestScope(requestScopeSnapshot), m.snapshots),
		waitForDetailUpdate(m.cacheEvents),
		refreshTickCmd(m.refreshInterval),
	)
}

// Close stops outstanding requests and detaches from the cache.
func (m *Model) Close() {
	m.cancelAllRequestScopes()
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
	m.cache.CancelScope(cacheScopeInspect)
	m.cache.CancelScope(cacheScopeVisible)
}

// Run starts the dashboard and blocks until the user quits or ctx ends.
func Run(ctx context.Context, opts Options) error {
	if ctx == nil {
		ctx = context.Background()
	}
	opts.Context = ctx
	m := NewModel(opts)
	defer m.Close()
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

func (m *Model) searchTerm() string {
	return m.search.Value()
}

func (m *Model) setStatus(text string) {
	m.status = text
	m.statusError = false
}

func (m *Model) setError(text string) {
	m.status = text
	m.statusError = true
}
