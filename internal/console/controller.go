// internal/console/controller.go
package console

import (
	"context"
	"crypto/subtle"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/marigoldshop/catalog-admin/internal/models"
	"github.com/marigoldshop/catalog-admin/internal/reconciler"
)

var (
	// ErrSecretMismatch is returned on a failed login; no state changes.
	ErrSecretMismatch = errors.New("incorrect admin password")
	// ErrNotAuthenticated gates every catalog operation.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrBusy rejects a mutation while another one is still in flight.
	ErrBusy = errors.New("another operation is in progress")
	// ErrProductNotFound is returned when an id is absent from the snapshot.
	ErrProductNotFound = errors.New("product not found")
)

// CatalogService is the slice of the catalog client the controller needs.
type CatalogService interface {
	List(ctx context.Context) (*models.Catalog, error)
	Delete(ctx context.Context, id string, category models.Category) (*models.Product, error)
}

// Controller gates access, owns the authoritative catalog snapshot and
// sequences reload-after-mutation. The snapshot only ever changes through a
// full reload; there is no optimistic local patching.
//
// The controller is confined to a single goroutine (the console's event
// loop); the busy flag is a policy guard against re-triggered commands, not
// a lock.
type Controller struct {
	secret  string
	svc     CatalogService
	rec     *reconciler.Reconciler
	session *Session

	snapshot models.Catalog
	busy     bool
	log      *logrus.Entry
}

func NewController(secret string, svc CatalogService, rec *reconciler.Reconciler, session *Session) *Controller {
	return &Controller{
		secret:  secret,
		svc:     svc,
		rec:     rec,
		session: session,
		log:     logrus.WithField("component", "controller"),
	}
}

func (c *Controller) Authenticated() bool {
	return c.session.Authenticated()
}

// Login compares the operator input against the shared secret. On match the
// persistent marker is recorded and the catalog loaded immediately; on
// mismatch nothing changes.
func (c *Controller) Login(ctx context.Context, secret string) error {
	if subtle.ConstantTimeCompare([]byte(secret), []byte(c.secret)) != 1 {
		return ErrSecretMismatch
	}
	if err := c.session.MarkAuthenticated(); err != nil {
		return err
	}
	c.log.Info("operator authenticated")
	return c.Reload(ctx)
}

// Reload fetches both category lists in one round trip and replaces the
// snapshot atomically; the two lists never update independently.
func (c *Controller) Reload(ctx context.Context) error {
	if !c.Authenticated() {
		return ErrNotAuthenticated
	}
	catalog, err := c.svc.List(ctx)
	if err != nil {
		return err
	}
	c.snapshot = *catalog
	c.log.WithFields(logrus.Fields{
		"accessories": len(catalog.Accessories),
		"gifts":       len(catalog.Gifts),
	}).Debug("snapshot replaced")
	return nil
}

func (c *Controller) Snapshot() models.Catalog {
	return c.snapshot
}

// Draft exposes the active draft for field edits.
func (c *Controller) Draft() *reconciler.Draft {
	return c.rec.Draft()
}

// BeginEdit seeds the draft from the snapshot copy of the product.
func (c *Controller) BeginEdit(id string) error {
	if !c.Authenticated() {
		return ErrNotAuthenticated
	}
	p, ok := c.snapshot.Find(id)
	if !ok {
		return ErrProductNotFound
	}
	c.rec.BeginEdit(*p)
	return nil
}

func (c *Controller) CancelEdit() {
	c.rec.Reset()
}

// Submit runs the reconciler's create-or-update and, on success, follows it
// with exactly one full reload.
func (c *Controller) Submit(ctx context.Context) (*models.Product, error) {
	if !c.Authenticated() {
		return nil, ErrNotAuthenticated
	}
	if c.busy {
		return nil, ErrBusy
	}
	c.busy = true
	defer func() { c.busy = false }()

	product, err := c.rec.Submit(ctx)
	if err != nil {
		return nil, err
	}
	return product, c.Reload(ctx)
}

// Delete removes a product and reloads. Deleting the product currently open
// for editing also resets the draft so the form does not keep referencing a
// now-nonexistent identifier.
func (c *Controller) Delete(ctx context.Context, id string, category models.Category) (*models.Product, error) {
	if !c.Authenticated() {
		return nil, ErrNotAuthenticated
	}
	if c.busy {
		return nil, ErrBusy
	}
	c.busy = true
	defer func() { c.busy = false }()

	product, err := c.svc.Delete(ctx, id, category)
	if err != nil {
		return nil, err
	}

	if c.rec.Draft().ProductID() == id {
		c.rec.Reset()
	}

	return product, c.Reload(ctx)
}
