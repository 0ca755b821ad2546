package usecase

import (
	"context"
	"time"
)

type Variant string

const (
	VariantDefault     Variant = "default"
	VariantDestructive Variant = "destructive"
)

// Notification is the toast shown to the user after an operation.
type Notification struct {
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Variant     Variant   `json:"variant"`
	At          time.Time `json:"at"`
	// Session routes the toast to its inbox. It is a bearer token and must
	// never leave the process.
	Session string `json:"-"`
	// Actor is the email of the user who triggered the operation.
	Actor string `json:"-"`
}

var nowFunc = time.Now

func success(title, description string) Notification {
	return Notification{Title: title, Description: description, Variant: VariantDefault, At: nowFunc()}
}

func failure(title string, err error) Notification {
	return Notification{Title: title, Description: err.Error(), Variant: VariantDestructive, At: nowFunc()}
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, n Notification) error

func (f NotifierFunc) Notify(ctx context.Context, n Notification) error {
	return f(ctx, n)
}

// Discard drops every notification.
var Discard Notifier = NotifierFunc(func(context.Context, Notification) error { return nil })
