package form

import (
	"errors"
	"fmt"

	"github.com/Werneck0live/cadastro-parceiros/internal/bp"
)

var (
	ErrSalesAreaIndex = errors.New("sales area index out of range")
	ErrModalOpen      = errors.New("sales area modal already open")
)

type EditorState string

const (
	StateNoSelection EditorState = "no_selection"
	StateViewing     EditorState = "viewing"
	StateEditing     EditorState = "editing"
)

// SalesAreaEditor is the modal over clienteVendasList. The list and the
// selection live in the form values; the editor only knows whether the modal
// is open and whether it was opened by Insert.
type SalesAreaEditor struct {
	Modal  bool `bson:"modal" json:"modal"`
	Create bool `bson:"create" json:"create"`
}

// EditorView is the state as the UI reads it.
type EditorView struct {
	State  EditorState `json:"state"`
	Index  *int        `json:"index"`
	Create bool        `json:"create"`
}

func (e SalesAreaEditor) View(l bp.SalesAreaList) EditorView {
	i, ok := l.SelectedIndex()
	switch {
	case !ok:
		return EditorView{State: StateNoSelection}
	case e.Modal:
		return EditorView{State: StateEditing, Index: &i, Create: e.Create}
	default:
		return EditorView{State: StateViewing, Index: &i}
	}
}

// Insert appends a blank item, selects it and opens the modal in create mode.
func (e *SalesAreaEditor) Insert(l *bp.SalesAreaList) (int, error) {
	if e.Modal {
		return 0, ErrModalOpen
	}
	l.Items = append(l.Items, bp.EmptySalesArea())
	i := len(l.Items) - 1
	l.Selected = &i
	e.Modal, e.Create = true, true
	return i, nil
}

// Open selects item i and opens the modal in edit mode.
func (e *SalesAreaEditor) Open(l *bp.SalesAreaList, i int) error {
	if e.Modal {
		return ErrModalOpen
	}
	if i < 0 || i >= len(l.Items) {
		return fmt.Errorf("%w: %d (len %d)", ErrSalesAreaIndex, i, len(l.Items))
	}
	l.Selected = &i
	e.Modal, e.Create = true, false
	return nil
}

// Cancel closes the modal. In create mode the appended item is dropped and
// the selection moves to the new last item, or to none. Edits made in edit
// mode were applied live and stay.
func (e *SalesAreaEditor) Cancel(l *bp.SalesAreaList) {
	if !e.Modal {
		return
	}
	if e.Create && len(l.Items) > 0 {
		l.Items = l.Items[:len(l.Items)-1]
		if n := len(l.Items); n > 0 {
			last := n - 1
			l.Selected = &last
		} else {
			l.Selected = nil
		}
	}
	e.Modal, e.Create = false, false
}

// Confirm closes the modal keeping list and selection.
func (e *SalesAreaEditor) Confirm() {
	e.Modal, e.Create = false, false
}

// Remove deletes item i with the modal closed. The selection follows the
// item it pointed to, or the nearest remaining one.
func (e *SalesAreaEditor) Remove(l *bp.SalesAreaList, i int) error {
	if e.Modal {
		return ErrModalOpen
	}
	if i < 0 || i >= len(l.Items) {
		return fmt.Errorf("%w: %d (len %d)", ErrSalesAreaIndex, i, len(l.Items))
	}
	prev := l.Selected
	l.Items = append(l.Items[:i], l.Items[i+1:]...)

	var sel int
	switch {
	case prev == nil || len(l.Items) == 0:
		l.Selected = nil
		return nil
	case *prev > i:
		sel = *prev - 1
	case *prev == i:
		sel = min(i, len(l.Items)-1)
	default:
		sel = *prev
	}
	l.Selected = &sel
	return nil
}

func (d *Draft) SalesAreaView() EditorView { return d.Editor.View(d.Values.SalesAreaList) }

func (d *Draft) InsertSalesArea() (int, error) {
	i, err := d.Editor.Insert(&d.Values.SalesAreaList)
	if err == nil {
		d.touch()
	}
	return i, err
}

func (d *Draft) OpenSalesArea(i int) error {
	err := d.Editor.Open(&d.Values.SalesAreaList, i)
	if err == nil {
		d.touch()
	}
	return err
}

func (d *Draft) CancelSalesArea() {
	d.Editor.Cancel(&d.Values.SalesAreaList)
	d.touch()
}

func (d *Draft) ConfirmSalesArea() {
	d.Editor.Confirm()
	d.touch()
}

func (d *Draft) RemoveSalesArea(i int) error {
	err := d.Editor.Remove(&d.Values.SalesAreaList, i)
	if err == nil {
		d.touch()
	}
	return err
}
