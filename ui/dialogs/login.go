package dialogs

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

// LoginDialog collects world server credentials.
type LoginDialog struct {
	serverURL string
	window    fyne.Window

	usernameEntry *widget.Entry
	passwordEntry *widget.Entry

	onLogin func(username, password string)
}

// NewLoginDialog creates a login prompt for the server at serverURL.
// onLogin runs with the entered credentials when the user confirms.
func NewLoginDialog(serverURL string, window fyne.Window, onLogin func(username, password string)) *LoginDialog {
	return &LoginDialog{
		serverURL: serverURL,
		window:    window,
		onLogin:   onLogin,
	}
}

// Show displays the dialog.
func (d *LoginDialog) Show() {
	d.usernameEntry = widget.NewEntry()
	d.usernameEntry.SetPlaceHolder("builder")
	d.passwordEntry = widget.NewPasswordEntry()

	form := widget.NewForm(
		widget.NewFormItem("Server", widget.NewLabel(d.serverURL)),
		widget.NewFormItem("Username", d.usernameEntry),
		widget.NewFormItem("Password", d.passwordEntry),
	)

	dlg := dialog.NewCustomConfirm(
		"Connect to Server",
		"Login",
		"Cancel",
		container.NewVBox(form),
		func(login bool) {
			if login && d.onLogin != nil {
				d.onLogin(d.usernameEntry.Text, d.passwordEntry.Text)
			}
		},
		d.window,
	)
	dlg.Resize(fyne.NewSize(380, 240))
	dlg.Show()
}
