package app

import (
	"errors"

	"knowledgevault/internal/model"
	"knowledgevault/internal/repository"
)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrDocumentNotFound = errors.New("document not found")
	ErrPermissionDenied = errors.New("permission denied")
)

// Decision is the outcome of a capability check.
type Decision int

const (
	DecisionAllow Decision = iota
	DecisionDeny
	DecisionRedirect
)

// Action names a gated capability.
type Action string

const (
	ActionViewDocuments Action = "documents.view"
	ActionUploadDocs    Action = "documents.upload"
	ActionManageUsers   Action = "admin.users"
	ActionManageAccess  Action = "admin.permissions"
	ActionReindex       Action = "admin.reindex"
)

// adminOnly lists the actions that require the admin role.
var adminOnly = map[Action]bool{
	ActionManageUsers:  true,
	ActionManageAccess: true,
	ActionReindex:      true,
}

// Decide is the single capability check: unauthenticated callers are
// redirected to login, authenticated callers are allowed unless the action is
// admin-gated and their role is not admin.
func Decide(role string, action Action) Decision {
	if role == "" {
		return DecisionRedirect
	}
	if adminOnly[action] && role != model.RoleAdmin {
		return DecisionDeny
	}
	return DecisionAllow
}

type AccessService struct {
	accessRepo *repository.DocumentAccessRepository
	docRepo    *repository.DocumentRepository
	userRepo   *repository.UserRepository
}

func NewAccessService(
	accessRepo *repository.DocumentAccessRepository,
	docRepo *repository.DocumentRepository,
	userRepo *repository.UserRepository,
) *AccessService {
	return &AccessService{
		accessRepo: accessRepo,
		docRepo:    docRepo,
		userRepo:   userRepo,
	}
}

// PermissionFor resolves the effective permission level of a user on a
// document. Uploaders and admins hold admin permission; everyone else holds
// whatever was granted, or nothing.
func (s *AccessService) PermissionFor(user *model.User, doc *model.Document) (string, error) {
	if user == nil || doc == nil {
		return "", ErrInvalidInput
	}
	if user.IsAdmin() || doc.UploadedBy == user.ID {
		return model.PermissionAdmin, nil
	}
	grant, err := s.accessRepo.Get(doc.ID, user.ID)
	if err != nil {
		return "", err
	}
	if grant == nil {
		return "", nil
	}
	return grant.Permission, nil
}

// CanWrite reports whether the user holds write or admin permission.
func (s *AccessService) CanWrite(user *model.User, doc *model.Document) (bool, error) {
	perm, err := s.PermissionFor(user, doc)
	if err != nil {
		return false, err
	}
	return perm == model.PermissionWrite || perm == model.PermissionAdmin, nil
}

type GrantInput struct {
	GrantedBy    uint
	UserID       uint   // either UserID or Department is set
	Department   string
	DocumentID   uint
	Permission   string
}

// Grant assigns a permission level on a document to a user, or to every user
// in a department. Department grants fan out to per-user rows at grant time.
func (s *AccessService) Grant(input GrantInput) ([]model.DocumentAccess, error) {
	switch input.Permission {
	case model.PermissionRead, model.PermissionWrite, model.PermissionAdmin:
	default:
		return nil, ErrInvalidInput
	}
	if input.DocumentID == 0 || (input.UserID == 0 && input.Department == "") {
		return nil, ErrInvalidInput
	}

	doc, err := s.docRepo.GetByID(input.DocumentID)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, ErrDocumentNotFound
	}

	var targets []model.User
	if input.UserID != 0 {
		user, err := s.userRepo.GetByID(input.UserID)
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, ErrUserNotFound
		}
		targets = []model.User{*user}
	} else {
		targets, err = s.userRepo.ListByDepartment(input.Department)
		if err != nil {
			return nil, err
		}
		if len(targets) == 0 {
			return nil, ErrUserNotFound
		}
	}

	grants := make([]model.DocumentAccess, 0, len(targets))
	for _, target := range targets {
		access := model.DocumentAccess{
			DocumentID: input.DocumentID,
			UserID:     target.ID,
			Permission: input.Permission,
			GrantedBy:  input.GrantedBy,
		}
		if err := s.accessRepo.Upsert(&access); err != nil {
			return nil, err
		}
		grants = append(grants, access)
	}
	return grants, nil
}

func (s *AccessService) ListGrants(documentID uint) ([]model.DocumentAccess, error) {
	if documentID == 0 {
		return nil, ErrInvalidInput
	}
	return s.accessRepo.ListByDocument(documentID)
}

func (s *AccessService) Revoke(documentID, userID uint) error {
	if documentID == 0 || userID == 0 {
		return ErrInvalidInput
	}
	return s.accessRepo.Delete(documentID, userID)
}
