// Package shelf coordinates saved packing lists across storage, the search
// index and change notifications, and renders URL-state documents.
package shelf

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/starford/packapp/internal/apperr"
	"github.com/starford/packapp/internal/checksum"
	"github.com/starford/packapp/internal/codec"
	"github.com/starford/packapp/internal/index"
	"github.com/starford/packapp/internal/models"
	"github.com/starford/packapp/internal/packing"
	"github.com/starford/packapp/internal/storage"
	"github.com/starford/packapp/internal/templates"
)

// InvalidStateWarning is reported when a URL state cannot be decoded and the
// default document is shown instead.
const InvalidStateWarning = "Invalid list state in URL"

// Notifier receives change notifications. *sse.Broker implements it.
type Notifier interface {
	PublishListEvent(kind, slug string)
	PublishItemsEvent(packed, total int)
}

// ListDetail is the full representation of a saved list.
type ListDetail struct {
	Slug      string           `json:"slug"`
	Checksum  string           `json:"checksum"`
	Document  packing.Document `json:"document"`
	View      DocumentView     `json:"view"`
	Location  string           `json:"location"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// StateView is a decoded URL-state document.
type StateView struct {
	State    string           `json:"state"`
	Location string           `json:"location"`
	Document packing.Document `json:"document"`
	View     DocumentView     `json:"view"`
	Warning  string           `json:"warning,omitempty"`
}

// CreateInput describes a new document. State takes precedence over Template.
// A non-blank Name overrides the name of the resulting document. Slug is
// derived from the name when empty.
type CreateInput struct {
	Name     string `json:"name,omitempty"`
	Template string `json:"template,omitempty"`
	State    string `json:"state,omitempty"`
	Slug     string `json:"slug,omitempty"`
}

// Service coordinates storage and index operations.
type Service struct {
	mu       sync.Mutex
	store    storage.Provider
	db       index.ListIndex
	items    *codec.FlatStore
	notifier Notifier
	baseURL  string
}

// Option configures a Service.
type Option func(*Service)

// WithNotifier publishes change events to n.
func WithNotifier(n Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

// WithBaseURL prefixes generated locations with u (for example
// "https://pack.example.com").
func WithBaseURL(u string) Option {
	return func(s *Service) { s.baseURL = strings.TrimRight(u, "/") }
}

// NewService creates a new shelf service.
func NewService(store storage.Provider, db index.ListIndex, opts ...Option) *Service {
	s := &Service{
		store: store,
		db:    db,
		items: codec.NewFlatStore(store),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Location returns the shareable location of doc.
func (s *Service) Location(doc packing.Document) (string, error) {
	return EncodeLocation(s.baseURL, doc)
}

func (s *Service) locationOf(state string) string {
	return joinLocation(s.baseURL, state)
}

// joinLocation is the single place the shareable location format is built.
func joinLocation(baseURL, state string) string {
	return strings.TrimRight(baseURL, "/") + "/list/" + state
}

// EncodeLocation returns baseURL + "/list/" + the encoded state of doc.
func EncodeLocation(baseURL string, doc packing.Document) (string, error) {
	state, err := codec.Encode(doc)
	if err != nil {
		return "", err
	}
	return joinLocation(baseURL, state), nil
}

// Compose builds the document described by in without saving it.
func Compose(in CreateInput) (packing.Document, error) {
	var (
		doc packing.Document
		err error
	)
	switch {
	case in.State != "":
		doc, err = codec.Decode(in.State)
	case in.Template != "":
		doc, err = templates.Instantiate(in.Template)
	case strings.TrimSpace(in.Name) != "":
		doc = packing.Document{Items: []packing.Node{}}
	default:
		doc = templates.Default()
	}
	if err != nil {
		return packing.Document{}, err
	}
	if name := strings.TrimSpace(in.Name); name != "" {
		doc.Name = name
	}
	return doc, nil
}

// --- URL state ---

// OpenState decodes state. An undecodable state yields the default document
// together with InvalidStateWarning rather than an error.
func (s *Service) OpenState(_ context.Context, state string) StateView {
	doc, err := codec.Decode(state)
	warning := ""
	if err != nil {
		doc = templates.Default()
		warning = InvalidStateWarning
	}
	v, err := s.stateView(doc)
	if err != nil {
		v = StateView{State: state, Location: s.locationOf(state), Document: doc, View: View(doc)}
	}
	v.Warning = warning
	return v
}

// NewState composes a document and returns its URL state.
func (s *Service) NewState(_ context.Context, in CreateInput) (StateView, error) {
	doc, err := Compose(in)
	if err != nil {
		return StateView{}, err
	}
	return s.stateView(doc)
}

// ApplyState applies op to the document encoded in state and returns the new
// state. Unlike OpenState, an undecodable state is an error.
func (s *Service) ApplyState(_ context.Context, state string, op packing.Operation) (StateView, packing.Outcome, error) {
	doc, err := codec.Decode(state)
	if err != nil {
		return StateView{}, packing.Outcome{}, err
	}
	out, err := packing.Apply(doc.Root(), op)
	if err != nil {
		return StateView{}, out, err
	}
	next := packing.FromRoot(out.Root)
	v, err := s.stateView(next)
	return v, out, err
}

func (s *Service) stateView(doc packing.Document) (StateView, error) {
	state, err := codec.Encode(doc)
	if err != nil {
		return StateView{}, err
	}
	return StateView{
		State:    state,
		Location: s.locationOf(state),
		Document: doc,
		View:     View(doc),
	}, nil
}

// --- saved lists ---

// Get reads a saved list.
func (s *Service) Get(_ context.Context, slug string) (*ListDetail, error) {
	data, err := s.read(slug)
	if err != nil {
		return nil, err
	}
	updated := time.Now()
	if row, err := s.db.GetList(slug); err == nil {
		updated = row.UpdatedAt
	}
	return s.detail(slug, data, updated)
}

// Create saves a new list and indexes it.
func (s *Service) Create(_ context.Context, in CreateInput) (*ListDetail, error) {
	doc, err := Compose(in)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	slug, err := s.freeSlug(in.Slug, doc.Name)
	if err != nil {
		return nil, err
	}
	detail, err := s.save(slug, doc)
	if err != nil {
		return nil, err
	}
	s.publish("created", slug)
	return detail, nil
}

// Replace overwrites a saved list. ifMatch is compared against the current
// checksum; an empty value skips the check.
func (s *Service) Replace(_ context.Context, slug string, doc packing.Document, ifMatch string) (*ListDetail, error) {
	if err := validateDocument(doc); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.read(slug)
	if err != nil {
		return nil, err
	}
	if !checksum.Match(ifMatch, checksum.Sum(existing)) {
		return nil, apperr.ErrConflict
	}
	detail, err := s.save(slug, doc)
	if err != nil {
		return nil, err
	}
	s.publish("updated", slug)
	return detail, nil
}

// Apply runs op against a saved list and persists the result.
func (s *Service) Apply(_ context.Context, slug string, op packing.Operation, ifMatch string) (*ListDetail, packing.Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.read(slug)
	if err != nil {
		return nil, packing.Outcome{}, err
	}
	if !checksum.Match(ifMatch, checksum.Sum(data)) {
		return nil, packing.Outcome{}, apperr.ErrConflict
	}
	doc, err := codec.Unmarshal(data)
	if err != nil {
		return nil, packing.Outcome{}, err
	}

	out, err := packing.Apply(doc.Root(), op)
	if err != nil {
		return nil, out, err
	}
	next := packing.FromRoot(out.Root)

	detail, err := s.save(slug, next)
	if err != nil {
		return nil, out, err
	}
	s.publish("updated", slug)
	return detail, out, nil
}

// Delete removes a saved list from storage and index.
func (s *Service) Delete(_ context.Context, slug string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Delete(slug); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return notFound(slug)
		}
		return err
	}
	if err := s.db.DeleteList(slug); err != nil {
		return err
	}
	s.publish("deleted", slug)
	return nil
}

// Move renames a saved list to newSlug, which must already be in slug form.
func (s *Service) Move(_ context.Context, slug, newSlug string) (*ListDetail, error) {
	if newSlug == "" || Slugify(newSlug) != newSlug {
		return nil, fmt.Errorf("%w: invalid slug %q", apperr.ErrInvalidInput, newSlug)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Move(slug, newSlug); err != nil {
		switch {
		case errors.Is(err, os.ErrExist):
			return nil, fmt.Errorf("list %s: %w", newSlug, apperr.ErrAlreadyExists)
		case errors.Is(err, os.ErrNotExist):
			return nil, notFound(slug)
		}
		return nil, err
	}
	if err := s.db.DeleteList(slug); err != nil {
		return nil, err
	}
	data, err := s.read(newSlug)
	if err != nil {
		return nil, err
	}
	if err := s.index(newSlug, data); err != nil {
		return nil, err
	}
	s.publish("deleted", slug)
	s.publish("created", newSlug)
	return s.detail(newSlug, data, time.Now())
}

// List returns a page of saved list summaries.
func (s *Service) List(_ context.Context, limit, offset int, sort string) ([]models.ListSummary, int, error) {
	rows, total, err := s.db.ListLists(limit, offset, sort)
	if err != nil {
		return nil, 0, err
	}
	out := make([]models.ListSummary, len(rows))
	for i, r := range rows {
		out[i] = models.ListSummary{
			Slug:         r.Slug,
			Name:         r.Name,
			Checksum:     r.Checksum,
			ItemCount:    r.ItemCount,
			CheckedCount: r.CheckedCount,
			Progress:     r.Progress,
			UpdatedAt:    r.UpdatedAt,
		}
	}
	return out, total, nil
}

// Search delegates name search to the index.
func (s *Service) Search(_ context.Context, query string, limit int) ([]models.SearchHit, error) {
	hits, err := s.db.Search(query, limit)
	if err != nil {
		return nil, err
	}
	if hits == nil {
		hits = []models.SearchHit{}
	}
	return hits, nil
}

// Share returns the URL location of a saved list.
func (s *Service) Share(_ context.Context, slug string) (string, error) {
	data, err := s.read(slug)
	if err != nil {
		return "", err
	}
	doc, err := codec.Unmarshal(data)
	if err != nil {
		return "", err
	}
	return s.Location(doc)
}

func (s *Service) read(slug string) ([]byte, error) {
	data, err := s.store.Read(slug)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, notFound(slug)
		}
		return nil, err
	}
	return data, nil
}

// save writes doc for slug and indexes it. The caller holds s.mu.
func (s *Service) save(slug string, doc packing.Document) (*ListDetail, error) {
	data, err := codec.MarshalIndent(doc)
	if err != nil {
		return nil, err
	}
	if err := s.store.Write(slug, data); err != nil {
		return nil, fmt.Errorf("%w: %w", apperr.ErrSaveFailed, err)
	}
	if err := s.index(slug, data); err != nil {
		return nil, err
	}
	return s.detail(slug, data, time.Now())
}

func (s *Service) index(slug string, data []byte) error {
	doc, err := codec.Unmarshal(data)
	if err != nil {
		return err
	}
	row, nodes := index.Rows(slug, doc, checksum.Sum(data), time.Now())
	return s.db.UpsertList(row, nodes)
}

func (s *Service) detail(slug string, data []byte, updated time.Time) (*ListDetail, error) {
	doc, err := codec.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	loc, err := s.Location(doc)
	if err != nil {
		return nil, err
	}
	return &ListDetail{
		Slug:      slug,
		Checksum:  checksum.Sum(data),
		Document:  doc,
		View:      View(doc),
		Location:  loc,
		UpdatedAt: updated,
	}, nil
}

// freeSlug picks the slug for a new list. An explicit slug must be free;
// a derived one gets a numeric suffix until it is.
func (s *Service) freeSlug(explicit, name string) (string, error) {
	if explicit != "" {
		if Slugify(explicit) != explicit {
			return "", fmt.Errorf("%w: invalid slug %q", apperr.ErrInvalidInput, explicit)
		}
		if s.exists(explicit) {
			return "", fmt.Errorf("list %s: %w", explicit, apperr.ErrAlreadyExists)
		}
		return explicit, nil
	}

	base := Slugify(name)
	if base == "" {
		base = fallbackSlug
	}
	candidate := base
	for n := 2; s.exists(candidate); n++ {
		candidate = base + "-" + strconv.Itoa(n)
	}
	return candidate, nil
}

func (s *Service) exists(slug string) bool {
	_, err := s.store.Read(slug)
	return err == nil
}

func (s *Service) publish(kind, slug string) {
	if s.notifier != nil {
		s.notifier.PublishListEvent(kind, slug)
	}
}

// validateDocument round-trips doc through the codec so replaced documents
// obey the same id rules as decoded ones.
func validateDocument(doc packing.Document) error {
	data, err := codec.Marshal(doc)
	if err != nil {
		return err
	}
	_, err = codec.Unmarshal(data)
	return err
}

func notFound(slug string) error {
	return &packing.NotFoundError{Kind: "list", ID: slug}
}
