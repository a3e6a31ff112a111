package app

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/dponte/coletamap/internal/domain"
	"github.com/dponte/coletamap/internal/forms"
)

// selectZoom is the camera zoom used when flying to a selected record.
const selectZoom = 16

// Controller wires the session, synchronizer, mode machine, photo manager,
// and map widget together. All user intents enter here.
type Controller struct {
	client   *Client
	session  *SessionController
	records  *Synchronizer
	mode     *ModeController
	photos   *PhotoManager
	mapView  MapWidget
	notifier Notifier
	logger   *slog.Logger

	busy atomic.Bool

	mu         sync.Mutex
	cancelFeed context.CancelFunc
}

func NewController(
	client *Client,
	session *SessionController,
	records *Synchronizer,
	mode *ModeController,
	photos *PhotoManager,
	mapView MapWidget,
	notifier Notifier,
	logger *slog.Logger,
) *Controller {
	c := &Controller{
		client:   client,
		session:  session,
		records:  records,
		mode:     mode,
		photos:   photos,
		mapView:  mapView,
		notifier: notifier,
		logger:   logger,
	}
	records.OnChange(func(snapshot []*domain.Property) {
		c.refreshMarkers(snapshot)
	})
	return c
}

// Start resumes the session and, when one exists, loads the records and
// opens the change feed. Without a session the redirect hook has already
// fired and nothing else happens.
func (c *Controller) Start(ctx context.Context) {
	if !c.session.Resume(ctx) {
		return
	}
	_ = c.records.LoadAll(ctx)
	c.subscribeFeed(ctx)
}

// subscribeFeed consumes change events until canceled, reloading wholesale
// on every event. In-progress form state is untouched by reloads.
func (c *Controller) subscribeFeed(ctx context.Context) {
	feedCtx, cancel := context.WithCancel(ctx)
	c.mu.Lock()
	if c.cancelFeed != nil {
		c.cancelFeed()
	}
	c.cancelFeed = cancel
	c.mu.Unlock()

	changes, err := c.client.Events(feedCtx)
	if err != nil {
		c.logger.Error("failed to open change feed", "error", err)
		return
	}
	go func() {
		for range changes {
			c.records.HandleChange(feedCtx)
		}
	}()
}

// HandleMapClick opens the create form at the clicked position. Clicks are
// ignored while a form or detail view is open.
func (c *Controller) HandleMapClick(lat, lng float64) {
	c.mode.MapClick(lat, lng)
}

// SelectRecord highlights a record and flies the camera to it.
func (c *Controller) SelectRecord(id string) {
	c.mode.Select(id)
	snapshot := c.records.Snapshot()
	c.refreshMarkers(snapshot)
	for _, p := range snapshot {
		if p.ID == id {
			c.mapView.FlyTo(p.Latitude, p.Longitude, selectZoom)
			return
		}
	}
}

// Submit validates and saves the open form, commits staged photos, and
// returns to the opening browse mode. The busy flag is cleared on every
// path.
func (c *Controller) Submit(ctx context.Context, payload *forms.PropertyPayload) error {
	if !c.busy.CompareAndSwap(false, true) {
		return errors.New("a submission is already in progress")
	}
	defer c.busy.Store(false)

	if verr := forms.ValidateProperty(payload); verr != nil {
		c.notifier.Notify(verr.Message)
		return verr
	}

	var (
		saved *domain.Property
		err   error
	)
	if editingID := c.mode.EditingID(); editingID != "" {
		saved, err = c.client.UpdateProperty(ctx, editingID, payload)
	} else {
		saved, err = c.client.CreateProperty(ctx, payload)
	}
	if err != nil {
		c.notifier.Notify(friendlyMessage(err))
		return err
	}

	// Photos only after the record is durably saved; their failures are
	// summarized by the manager and never undo the save.
	c.photos.Commit(ctx, saved.ID)

	if c.mode.EditingID() != "" {
		c.notifier.Notify("Imóvel atualizado com sucesso!")
	} else {
		c.notifier.Notify("Imóvel cadastrado com sucesso!")
	}
	c.mode.Close()
	_ = c.records.LoadAll(ctx)
	return nil
}

// DeleteRecord removes a record and reloads.
func (c *Controller) DeleteRecord(ctx context.Context, id string) error {
	if !c.busy.CompareAndSwap(false, true) {
		return errors.New("a submission is already in progress")
	}
	defer c.busy.Store(false)

	if err := c.client.DeleteProperty(ctx, id); err != nil {
		c.notifier.Notify(friendlyMessage(err))
		return err
	}
	c.notifier.Notify("Imóvel excluído com sucesso!")
	c.mode.Close()
	c.mode.ClearSelection()
	_ = c.records.LoadAll(ctx)
	return nil
}

// CancelForm discards staged photos and returns to the opening browse mode.
func (c *Controller) CancelForm() {
	c.photos.Discard()
	c.mode.Close()
}

// ResolveMapToken fetches the server-configured map token and persists it
// locally. When the server has none, or is unreachable, the locally
// persisted token from a previous run is used.
func (c *Controller) ResolveMapToken(ctx context.Context, store *MapTokenStore) (string, error) {
	token, err := c.client.MapToken(ctx)
	if err != nil || token == "" {
		if err != nil {
			c.logger.Warn("failed to fetch map token", "error", err)
		}
		return store.Load()
	}
	if err := store.Save(token); err != nil {
		c.logger.Warn("failed to persist map token", "error", err)
	}
	return token, nil
}

// Busy reports whether a submission is in flight.
func (c *Controller) Busy() bool {
	return c.busy.Load()
}

// Logout tears down the change subscription and drops the session, which
// fires the redirect hook.
func (c *Controller) Logout() {
	c.mu.Lock()
	if c.cancelFeed != nil {
		c.cancelFeed()
		c.cancelFeed = nil
	}
	c.mu.Unlock()
	c.photos.Discard()
	c.session.Logout()
}

func (c *Controller) refreshMarkers(snapshot []*domain.Property) {
	selected := c.mode.SelectedID()
	markers := make([]Marker, 0, len(snapshot))
	for _, p := range snapshot {
		markers = append(markers, Marker{
			ID:          p.ID,
			Lat:         p.Latitude,
			Lng:         p.Longitude,
			Highlighted: p.ID == selected,
		})
	}
	c.mapView.SetMarkers(markers)
}

// friendlyMessage maps an error to the text shown to the user.
func friendlyMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.FriendlyMessage()
	}
	return "Ocorreu um erro. Tente novamente."
}
