// Package gui is the fyne desktop form for the record controller:
// four inputs, the action buttons, an output area and a status bar.
//
// The form holds no logic of its own. Each button hands the current
// field values to the controller and renders the Outcome it returns.
package gui

import (
	"errors"
	"slices"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/aanand-mishra/student-records/internal/form"
	"github.com/aanand-mishra/student-records/internal/types"
)

// Form is the record form bound to one window.
type Form struct {
	window     fyne.Window
	controller *form.Controller
	header     string

	RegNo   *widget.Entry
	Name    *widget.Entry
	Program *widget.Select
	// ProgramText replaces Program when the controller has no program list.
	ProgramText *widget.Entry
	CGPA        *widget.Entry

	AddButton    *widget.Button
	ViewButton   *widget.Button
	UpdateButton *widget.Button
	DeleteButton *widget.Button
	ListButton   *widget.Button

	Output *widget.Label
	Status *widget.Label

	// Confirm asks before a delete. Defaults to a confirmation dialog.
	Confirm form.Confirmer
	// Alert shows a validation message. Defaults to an error dialog.
	Alert func(msg string)
}

// New builds the form and sets it as the window content.
func New(window fyne.Window, controller *form.Controller, header string) *Form {
	f := &Form{
		window:     window,
		controller: controller,
		header:     header,
	}

	f.Confirm = func(prompt string, answer func(bool)) {
		dialog.ShowConfirm("Confirm Deletion", prompt, answer, f.window)
	}
	f.Alert = func(msg string) {
		dialog.ShowError(errors.New(msg), f.window)
	}

	f.setupInputs()
	f.setupButtons()

	f.Output = widget.NewLabel("")
	f.Output.Wrapping = fyne.TextWrapWord
	f.Status = widget.NewLabel("Status: Ready")

	f.setFields(controller.Defaults())
	window.SetContent(f.layout())

	return f
}

func (f *Form) setupInputs() {
	f.RegNo = widget.NewEntry()
	f.Name = widget.NewEntry()
	f.CGPA = widget.NewEntry()

	if programs := f.controller.Programs(); len(programs) > 0 {
		f.Program = widget.NewSelect(programs, nil)
	} else {
		f.ProgramText = widget.NewEntry()
	}
}

func (f *Form) setupButtons() {
	f.AddButton = widget.NewButton("Add Record", func() { f.render(f.controller.Add(f.fields())) })
	f.ViewButton = widget.NewButton("View Record", func() { f.render(f.controller.View(f.fields())) })
	f.UpdateButton = widget.NewButton("Update Record", func() { f.render(f.controller.Update(f.fields())) })
	f.DeleteButton = widget.NewButton("Delete Record", func() {
		f.controller.Delete(f.fields(), f.Confirm, f.render)
	})
	f.ListButton = widget.NewButton("List Records", func() { f.render(f.controller.List(f.fields())) })

	f.AddButton.Importance = widget.SuccessImportance
	f.ViewButton.Importance = widget.HighImportance
	f.UpdateButton.Importance = widget.WarningImportance
	f.DeleteButton.Importance = widget.DangerImportance
}

func (f *Form) layout() fyne.CanvasObject {
	header := widget.NewLabelWithStyle(f.header, fyne.TextAlignCenter, fyne.TextStyle{Bold: true})

	var program fyne.CanvasObject = f.ProgramText
	if f.Program != nil {
		program = f.Program
	}

	inputs := widget.NewForm(
		widget.NewFormItem("Reg No.:", f.RegNo),
		widget.NewFormItem("Name:", f.Name),
		widget.NewFormItem("Program:", program),
		widget.NewFormItem("CGPA:", f.CGPA),
	)

	buttons := container.NewHBox(f.AddButton, f.ViewButton, f.UpdateButton, f.DeleteButton, f.ListButton)

	outputTitle := widget.NewLabelWithStyle("Output / View Details:", fyne.TextAlignLeading, fyne.TextStyle{Bold: true})

	return container.NewBorder(
		container.NewVBox(header, inputs, container.NewCenter(buttons), outputTitle),
		f.Status,
		nil, nil,
		container.NewVScroll(f.Output),
	)
}

func (f *Form) fields() types.Fields {
	fields := types.Fields{
		RegNo: f.RegNo.Text,
		Name:  f.Name.Text,
		CGPA:  f.CGPA.Text,
	}
	if f.Program != nil {
		fields.Program = f.Program.Selected
	} else {
		fields.Program = f.ProgramText.Text
	}
	return fields
}

func (f *Form) setFields(fields types.Fields) {
	f.RegNo.SetText(fields.RegNo)
	f.Name.SetText(fields.Name)
	f.CGPA.SetText(fields.CGPA)
	if f.Program != nil {
		// SetSelected ignores values outside Options, which would leave the
		// previous selection showing. A stored program that is no longer
		// listed clears the selection, so Update asks for one.
		if slices.Contains(f.Program.Options, fields.Program) {
			f.Program.SetSelected(fields.Program)
		} else {
			f.Program.ClearSelected()
		}
	} else {
		f.ProgramText.SetText(fields.Program)
	}
}

// render shows an outcome. Invalid input only raises an alert; the rest
// update the status bar, the output area and the fields.
func (f *Form) render(out form.Outcome) {
	switch out.Kind {
	case form.Invalid:
		f.Alert(out.Message)
		return
	case form.Cancelled:
		f.Status.SetText(out.Status())
		return
	}

	f.Status.SetText(out.Status())
	f.Output.SetText(out.Output)
	f.setFields(out.Fields)
}
