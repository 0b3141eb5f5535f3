package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/prn-tf/atlant-cms/internal/domain"
	"github.com/prn-tf/atlant-cms/internal/lock"
	"github.com/prn-tf/atlant-cms/internal/repository"
	"github.com/prn-tf/atlant-cms/internal/repository/memory"
)

type certificateFixture struct {
	groups       *CertificateGroupService
	items        *CertificateItemService
	certificates *CertificateService
	certRepo     *memory.Store[*domain.Certificate]
}

func newCertificateFixture() *certificateFixture {
	groupRepo := memory.New(repository.CertificateGroups())
	itemRepo := memory.New(repository.CertificateItems())
	certRepo := memory.New(repository.Certificates())
	locks := lock.NewMemoryLocker()
	logger := zerolog.Nop()

	return &certificateFixture{
		groups:       NewCertificateGroupService(groupRepo, certRepo, locks, logger),
		items:        NewCertificateItemService(itemRepo, certRepo, locks, logger),
		certificates: NewCertificateService(certRepo, groupRepo, itemRepo, locks, logger),
		certRepo:     certRepo,
	}
}

func testGroup(t *testing.T, title string) *domain.CertificateGroup {
	t.Helper()
	group, err := domain.NewCertificateGroup(domain.CertificateGroupInput{
		Section:  "Сертификаты",
		Title:    title,
		IsActive: true,
	})
	if err != nil {
		t.Fatalf("failed to build group: %v", err)
	}
	return group
}

func testItem(t *testing.T, title string) *domain.CertificateItem {
	t.Helper()
	item, err := domain.NewCertificateItem(domain.CertificateItemInput{
		Section: "Награды",
		Title:   title,
	})
	if err != nil {
		t.Fatalf("failed to build item: %v", err)
	}
	return item
}

func testCertificate(t *testing.T, parentID uuid.UUID, title string) *domain.Certificate {
	t.Helper()
	cert, err := domain.NewCertificate(domain.CertificateInput{
		ParentID: parentID,
		Title:    title,
		Link:     "/media/certs/" + title + ".pdf",
	})
	if err != nil {
		t.Fatalf("failed to build certificate: %v", err)
	}
	return cert
}

func TestCertificateCreateRequiresParent(t *testing.T) {
	f := newCertificateFixture()
	ctx := context.Background()

	group, err := f.groups.Create(ctx, testGroup(t, "ГОСТ"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	item, err := f.items.Create(ctx, testItem(t, "Лучший поставщик"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		name     string
		parentID uuid.UUID
		wantErr  error
	}{
		{name: "group parent", parentID: group.AggregateID()},
		{name: "item parent", parentID: item.AggregateID()},
		{name: "unknown parent", parentID: uuid.New(), wantErr: domain.ErrCertificateParentNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.certificates.Create(ctx, testCertificate(t, tt.parentID, "cert-"+tt.name))

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("expected error %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestCertificateUpdateRequiresParent(t *testing.T) {
	f := newCertificateFixture()
	ctx := context.Background()

	group, err := f.groups.Create(ctx, testGroup(t, "ГОСТ"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cert, err := f.certificates.Create(ctx, testCertificate(t, group.AggregateID(), "scan"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Repointing at a parent that does not exist is rejected.
	cert.ParentID = uuid.New()
	_, err = f.certificates.Update(ctx, cert)
	if !errors.Is(err, domain.ErrCertificateParentNotFound) {
		t.Errorf("expected ErrCertificateParentNotFound, got %v", err)
	}
}

func TestGroupDeleteCascades(t *testing.T) {
	f := newCertificateFixture()
	ctx := context.Background()

	group, err := f.groups.Create(ctx, testGroup(t, "ГОСТ"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	other, err := f.groups.Create(ctx, testGroup(t, "ISO"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, title := range []string{"scan-1", "scan-2"} {
		if _, err := f.certificates.Create(ctx, testCertificate(t, group.AggregateID(), title)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	kept, err := f.certificates.Create(ctx, testCertificate(t, other.AggregateID(), "scan-3"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := f.groups.Delete(ctx, group.AggregateID()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Only the deleted group's certificates are gone.
	if f.certRepo.Len() != 1 {
		t.Errorf("expected 1 surviving certificate, got %d", f.certRepo.Len())
	}
	if _, err := f.certificates.GetByID(ctx, kept.AggregateID()); err != nil {
		t.Errorf("certificate of another parent must survive: %v", err)
	}
}

func TestItemDeleteCascades(t *testing.T) {
	f := newCertificateFixture()
	ctx := context.Background()

	item, err := f.items.Create(ctx, testItem(t, "Лучший поставщик"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := f.certificates.Create(ctx, testCertificate(t, item.AggregateID(), "scan")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := f.items.Delete(ctx, item.AggregateID()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.certRepo.Len() != 0 {
		t.Errorf("expected owned certificates to be removed, %d left", f.certRepo.Len())
	}
}

func TestListByParent(t *testing.T) {
	f := newCertificateFixture()
	ctx := context.Background()

	group, err := f.groups.Create(ctx, testGroup(t, "ГОСТ"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	other, err := f.groups.Create(ctx, testGroup(t, "ISO"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, title := range []string{"scan-1", "scan-2"} {
		if _, err := f.certificates.Create(ctx, testCertificate(t, group.AggregateID(), title)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if _, err := f.certificates.Create(ctx, testCertificate(t, other.AggregateID(), "scan-3")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	children, err := f.certificates.ListByParent(ctx, group.AggregateID())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(children) != 2 {
		t.Errorf("expected 2 certificates, got %d", len(children))
	}
	for _, child := range children {
		if child.ParentID != group.AggregateID() {
			t.Errorf("unexpected parent %s", child.ParentID)
		}
	}
}
