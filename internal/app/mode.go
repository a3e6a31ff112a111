package app

import "sync"

// Mode is the single active panel of the application. Exactly one mode is
// active at any time.
type Mode int

const (
	ModeMap Mode = iota
	ModeList
	ModeCreateForm
	ModeEditForm
	ModeDetailView
)

func (m Mode) String() string {
	switch m {
	case ModeMap:
		return "map"
	case ModeList:
		return "list"
	case ModeCreateForm:
		return "create"
	case ModeEditForm:
		return "edit"
	case ModeDetailView:
		return "detail"
	default:
		return "unknown"
	}
}

// Coordinate is a clicked or located map position carried into the create
// form.
type Coordinate struct {
	Lat float64
	Lng float64
}

// ModeController is the panel state machine. Forms and the detail view
// remember which browsing mode opened them and return there on close.
type ModeController struct {
	mu         sync.Mutex
	mode       Mode
	openedFrom Mode
	narrow     bool
	selectedID string
	editingID  string
	carried    *Coordinate
}

func NewModeController() *ModeController {
	return &ModeController{mode: ModeMap, openedFrom: ModeMap}
}

func (c *ModeController) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// SetNarrow flags a narrow viewport. On narrow screens the map and the list
// are alternatives rather than side by side, which changes where selection
// and close land.
func (c *ModeController) SetNarrow(narrow bool) {
	c.mu.Lock()
	c.narrow = narrow
	c.mu.Unlock()
}

func (c *ModeController) SelectedID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selectedID
}

// EditingID returns the record being edited, or empty outside EditForm.
func (c *ModeController) EditingID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.editingID
}

// CarriedCoordinate returns the position carried into the create form, or
// nil.
func (c *ModeController) CarriedCoordinate() *Coordinate {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.carried == nil {
		return nil
	}
	coord := *c.carried
	return &coord
}

// MapClick opens the create form carrying the clicked position. Clicks are
// ignored while any form or the detail view is open; the report value says
// whether the click took effect.
func (c *ModeController) MapClick(lat, lng float64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mode != ModeMap && c.mode != ModeList {
		return false
	}
	c.openedFrom = c.mode
	c.mode = ModeCreateForm
	c.carried = &Coordinate{Lat: lat, Lng: lng}
	return true
}

// OpenCreate opens an empty create form, as from the "new record" action.
func (c *ModeController) OpenCreate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mode != ModeMap && c.mode != ModeList {
		return
	}
	c.openedFrom = c.mode
	c.mode = ModeCreateForm
	c.carried = nil
}

// Select highlights a record. On a wide viewport the panel does not change;
// on a narrow one the detail view opens.
func (c *ModeController) Select(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selectedID = id
	if c.narrow && (c.mode == ModeMap || c.mode == ModeList) {
		c.openedFrom = c.mode
		c.mode = ModeDetailView
	}
}

func (c *ModeController) ClearSelection() {
	c.mu.Lock()
	c.selectedID = ""
	c.mu.Unlock()
}

// OpenDetail shows a record's detail view.
func (c *ModeController) OpenDetail(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mode == ModeMap || c.mode == ModeList {
		c.openedFrom = c.mode
	}
	c.selectedID = id
	c.mode = ModeDetailView
}

// OpenEdit opens the edit form for a record.
func (c *ModeController) OpenEdit(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mode == ModeMap || c.mode == ModeList {
		c.openedFrom = c.mode
	}
	c.editingID = id
	c.mode = ModeEditForm
}

// ShowList switches to the list while browsing.
func (c *ModeController) ShowList() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mode == ModeMap {
		c.mode = ModeList
	}
}

// ShowMap switches to the map while browsing.
func (c *ModeController) ShowMap() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mode == ModeList {
		c.mode = ModeMap
	}
}

// Close leaves the current form or detail view, returning to the browsing
// mode that opened it and clearing carried state. Cancel, explicit close,
// and save-success all land here.
func (c *ModeController) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mode == ModeMap || c.mode == ModeList {
		return
	}
	if c.mode == ModeDetailView {
		c.selectedID = ""
	}
	c.mode = c.openedFrom
	c.carried = nil
	c.editingID = ""
}
