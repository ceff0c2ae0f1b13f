package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gestorerp/admin-api/internal/database"
	"github.com/gestorerp/admin-api/internal/dto"
	"github.com/gestorerp/admin-api/internal/models"
	"github.com/gestorerp/admin-api/internal/policy"
	"github.com/gestorerp/admin-api/internal/validators"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrEmailTaken      = errors.New("email already in use")
	ErrUsernameTaken   = errors.New("username already in use")
	ErrNationalIDTaken = errors.New("national ID already in use")
	// ErrConflict covers uniqueness violations surfaced by the store when
	// concurrent writes race past the application-level checks.
	ErrConflict = errors.New("value already in use")
)

// Batch action names accepted by Batch.
const (
	BatchUpdateStatus = "update_status"
	BatchForceLogout  = "force_logout"
	BatchDelete       = "delete"
)

// ValidationError reports a malformed or missing input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalidField(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// Register creates a user. The whole pipeline is atomic: every validation,
// policy check and uniqueness check passes before the single create, or
// nothing is written.
func (s *UserService) Register(actor *models.User, req *dto.RegisterRequest) (*dto.UserResponse, error) {
	if req.Name == "" || req.Email == "" || req.Username == "" || req.NationalID == "" || req.Password == "" {
		return nil, invalidField("name", "name, email, username, national ID and password are required")
	}
	if !validators.ValidateFullName(req.Name) {
		return nil, invalidField("name", "full name is required (first and last name)")
	}
	if !validators.ValidateEmail(req.Email) {
		return nil, invalidField("email", "invalid email")
	}
	if !validators.ValidateUsername(req.Username) {
		return nil, invalidField("username", "username must be 3-30 characters: letters, digits and underscore")
	}
	if !validators.ValidateNationalID(req.NationalID) {
		return nil, invalidField("national_id", "invalid national ID")
	}
	if len(req.Password) < 6 {
		return nil, invalidField("password", "password must be at least 6 characters")
	}

	role := req.Role
	if role == "" {
		role = models.RoleUser
	}
	if !models.ValidRole(role) {
		return nil, invalidField("role", "invalid role")
	}
	if err := policy.AuthorizeCreate(actor, role); err != nil {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = models.StatusActive
	}
	if !models.ValidStatus(status) {
		return nil, invalidField("status", "invalid status")
	}

	if req.Phone != "" && !validators.ValidatePhone(req.Phone) {
		return nil, invalidField("phone", "invalid phone")
	}
	if req.State != "" && !validators.ValidateStateCode(req.State, models.StateCodes) {
		return nil, invalidField("state", "invalid state code")
	}
	if req.PostalCode != "" && !validators.ValidatePostalCode(req.PostalCode) {
		return nil, invalidField("postal_code", "invalid postal code")
	}

	modulesGranted := models.AllScope()
	if req.ModulesGranted != nil {
		modulesGranted = *req.ModulesGranted
	}
	viewsGranted := models.AllScope()
	if req.ViewsGranted != nil {
		viewsGranted = *req.ViewsGranted
	}
	if !modulesGranted.Valid() {
		return nil, invalidField("modules_granted", "invalid permission structure")
	}
	if !viewsGranted.Valid() {
		return nil, invalidField("views_granted", "invalid permission structure")
	}

	email := normalizeEmail(req.Email)
	nationalID := validators.StripDigits(req.NationalID)

	if err := s.checkUniqueness(email, req.Username, nationalID, 0); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		Name:       strings.TrimSpace(req.Name),
		Email:      email,
		Username:   strings.TrimSpace(req.Username),
		NationalID: nationalID,
		Password:   string(hash),
		Role:       role,
		Status:     status,

		LoginStatus: models.LoginStatusOffline,

		JobTitle:      strings.TrimSpace(req.JobTitle),
		Phone:         validators.StripDigits(req.Phone),
		Address:       strings.TrimSpace(req.Address),
		AddressNumber: strings.TrimSpace(req.AddressNumber),
		AddressExtra:  strings.TrimSpace(req.AddressExtra),
		District:      strings.TrimSpace(req.District),
		City:          strings.TrimSpace(req.City),
		State:         strings.ToUpper(strings.TrimSpace(req.State)),
		PostalCode:    validators.StripDigits(req.PostalCode),
		Notes:         strings.TrimSpace(req.Notes),

		ModulesGranted: datatypes.NewJSONType(modulesGranted),
		ViewsGranted:   datatypes.NewJSONType(viewsGranted),
	}
	if actor != nil {
		creatorID := actor.ID
		user.CreatedBy = &creatorID
	}

	if err := s.db.Create(&user).Error; err != nil {
		return nil, storeError(err)
	}

	resp := userToResponse(&user)
	return &resp, nil
}

// Update applies a partial update to a user. Validation runs field by
// field before a single Updates call; a status change away from ACTIVE
// forces the session offline in the same write.
func (s *UserService) Update(actor *models.User, targetID uint, req *dto.UpdateUserRequest) (*dto.UserResponse, error) {
	var target models.User
	if err := s.db.First(&target, targetID).Error; err != nil {
		return nil, ErrUserNotFound
	}

	changes := policy.UpdateChanges{}
	if req.Role != nil && *req.Role != target.Role {
		changes.Role = *req.Role
	}
	if req.Status != nil && *req.Status != target.Status {
		changes.Status = *req.Status
	}
	if err := policy.AuthorizeUpdate(actor, &target, changes); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}

	if req.Name != nil {
		if !validators.ValidateFullName(*req.Name) {
			return nil, invalidField("name", "full name is required (first and last name)")
		}
		updates["name"] = strings.TrimSpace(*req.Name)
	}

	email := target.Email
	if req.Email != nil {
		if !validators.ValidateEmail(*req.Email) {
			return nil, invalidField("email", "invalid email")
		}
		email = normalizeEmail(*req.Email)
		updates["email"] = email
	}

	username := target.Username
	if req.Username != nil {
		if !validators.ValidateUsername(*req.Username) {
			return nil, invalidField("username", "username must be 3-30 characters: letters, digits and underscore")
		}
		username = strings.TrimSpace(*req.Username)
		updates["username"] = username
	}

	nationalID := target.NationalID
	if req.NationalID != nil {
		if !validators.ValidateNationalID(*req.NationalID) {
			return nil, invalidField("national_id", "invalid national ID")
		}
		nationalID = validators.StripDigits(*req.NationalID)
		updates["national_id"] = nationalID
	}

	if req.Password != nil {
		if len(*req.Password) < 6 {
			return nil, invalidField("password", "password must be at least 6 characters")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		updates["password"] = string(hash)
	}

	if changes.Role != "" {
		if !models.ValidRole(changes.Role) {
			return nil, invalidField("role", "invalid role")
		}
		updates["role"] = changes.Role
	}

	forcedOffline := false
	if changes.Status != "" {
		if !models.ValidStatus(changes.Status) {
			return nil, invalidField("status", "invalid status")
		}
		updates["status"] = changes.Status
		if changes.Status != models.StatusActive {
			updates["login_status"] = models.LoginStatusOffline
			forcedOffline = true
		}
	}

	if req.JobTitle != nil {
		updates["job_title"] = strings.TrimSpace(*req.JobTitle)
	}
	if req.Phone != nil {
		if *req.Phone != "" && !validators.ValidatePhone(*req.Phone) {
			return nil, invalidField("phone", "invalid phone")
		}
		updates["phone"] = validators.StripDigits(*req.Phone)
	}
	if req.Address != nil {
		updates["address"] = strings.TrimSpace(*req.Address)
	}
	if req.AddressNumber != nil {
		updates["address_number"] = strings.TrimSpace(*req.AddressNumber)
	}
	if req.AddressExtra != nil {
		updates["address_extra"] = strings.TrimSpace(*req.AddressExtra)
	}
	if req.District != nil {
		updates["district"] = strings.TrimSpace(*req.District)
	}
	if req.City != nil {
		updates["city"] = strings.TrimSpace(*req.City)
	}
	if req.State != nil {
		if *req.State != "" && !validators.ValidateStateCode(*req.State, models.StateCodes) {
			return nil, invalidField("state", "invalid state code")
		}
		updates["state"] = strings.ToUpper(strings.TrimSpace(*req.State))
	}
	if req.PostalCode != nil {
		if *req.PostalCode != "" && !validators.ValidatePostalCode(*req.PostalCode) {
			return nil, invalidField("postal_code", "invalid postal code")
		}
		updates["postal_code"] = validators.StripDigits(*req.PostalCode)
	}
	if req.Notes != nil {
		updates["notes"] = strings.TrimSpace(*req.Notes)
	}

	if req.ModulesGranted != nil {
		if !req.ModulesGranted.Valid() {
			return nil, invalidField("modules_granted", "invalid permission structure")
		}
		updates["modules_granted"] = datatypes.NewJSONType(*req.ModulesGranted)
	}
	if req.ViewsGranted != nil {
		if !req.ViewsGranted.Valid() {
			return nil, invalidField("views_granted", "invalid permission structure")
		}
		updates["views_granted"] = datatypes.NewJSONType(*req.ViewsGranted)
	}

	if err := s.checkUniqueness(email, username, nationalID, target.ID); err != nil {
		return nil, err
	}

	if len(updates) > 0 {
		err := s.db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&target).Updates(updates).Error; err != nil {
				return err
			}
			if forcedOffline {
				return revokeRefreshTokens(tx, target.ID)
			}
			return nil
		})
		if err != nil {
			return nil, storeError(err)
		}
	}

	if err := s.db.First(&target, targetID).Error; err != nil {
		return nil, ErrUserNotFound
	}
	resp := userToResponse(&target)
	return &resp, nil
}

// UpdateStatus changes the account status of another user. Setting any
// status other than ACTIVE atomically forces the session offline.
func (s *UserService) UpdateStatus(actor *models.User, targetID uint, status string) error {
	if !models.ValidStatus(status) {
		return invalidField("status", "invalid status")
	}

	var target models.User
	if err := s.db.First(&target, targetID).Error; err != nil {
		return ErrUserNotFound
	}

	if err := policy.AuthorizeAction(actor, &target); err != nil {
		return err
	}

	updates := map[string]interface{}{"status": status}
	if status != models.StatusActive {
		updates["login_status"] = models.LoginStatusOffline
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&target).Updates(updates).Error; err != nil {
			return err
		}
		if status != models.StatusActive {
			return revokeRefreshTokens(tx, target.ID)
		}
		return nil
	})
}

// ForceLogout is the administrative offline transition. Idempotent.
func (s *UserService) ForceLogout(actor *models.User, targetID uint) error {
	var target models.User
	if err := s.db.First(&target, targetID).Error; err != nil {
		return ErrUserNotFound
	}

	if err := policy.AuthorizeAction(actor, &target); err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&target).
			Update("login_status", models.LoginStatusOffline).Error; err != nil {
			return err
		}
		return revokeRefreshTokens(tx, target.ID)
	})
}

// Delete soft-deletes a user: status INACTIVE plus forced logout. The row
// is never purged, so uniqueness still holds against deleted users. The
// last super admin can never be deleted.
func (s *UserService) Delete(actor *models.User, targetID uint) error {
	var target models.User
	if err := s.db.First(&target, targetID).Error; err != nil {
		return ErrUserNotFound
	}

	// Only active super admins count toward the protection floor; a
	// deactivated one cannot keep the system administrable.
	var superAdmins int64
	if err := s.db.Model(&models.User{}).
		Scopes(database.WithRole(models.RoleSuperAdmin), database.WithStatus(models.StatusActive)).
		Count(&superAdmins).Error; err != nil {
		return err
	}

	if err := policy.AuthorizeDelete(actor, &target, superAdmins); err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&target).Updates(map[string]interface{}{
			"status":       models.StatusInactive,
			"login_status": models.LoginStatusOffline,
		}).Error; err != nil {
			return err
		}
		return revokeRefreshTokens(tx, target.ID)
	})
}

// Get fetches one user by ID.
func (s *UserService) Get(id uint) (*dto.UserResponse, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		return nil, ErrUserNotFound
	}
	resp := userToResponse(&user)
	return &resp, nil
}

// ListFilter narrows and orders user listings.
type ListFilter struct {
	Page    int
	Limit   int
	Search  string
	Role    string
	Status  string
	SortBy  string
	SortDir string
}

// Sortable listing columns. Anything else falls back to created_at.
var sortColumns = map[string]string{
	"name":       "name",
	"email":      "email",
	"username":   "username",
	"role":       "role",
	"status":     "status",
	"created_at": "created_at",
	"updated_at": "updated_at",
}

// List returns a page of users with total counts.
func (s *UserService) List(filter ListFilter) (*dto.UsersListResponse, error) {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	query := s.db.Model(&models.User{}).Scopes(database.SearchUsers(filter.Search))
	if filter.Role != "" {
		query = query.Scopes(database.WithRole(filter.Role))
	}
	if filter.Status != "" {
		query = query.Scopes(database.WithStatus(filter.Status))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	column, ok := sortColumns[filter.SortBy]
	if !ok {
		column = "created_at"
	}
	direction := "ASC"
	if strings.EqualFold(filter.SortDir, "desc") || filter.SortBy == "" {
		direction = "DESC"
	}

	var users []models.User
	if err := query.Order(column + " " + direction).
		Limit(limit).Offset(offset).Find(&users).Error; err != nil {
		return nil, err
	}

	out := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, userToResponse(&users[i]))
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &dto.UsersListResponse{
		Users:      out,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}, nil
}

// Batch runs one action over a set of target IDs. Policy is applied per
// target; a failing target is recorded and never aborts the rest.
func (s *UserService) Batch(actor *models.User, req *dto.BatchRequest) (*dto.BatchResponse, error) {
	if len(req.IDs) == 0 {
		return nil, invalidField("ids", "at least one target ID is required")
	}

	var run func(targetID uint) error
	switch req.Action {
	case BatchUpdateStatus:
		if req.Payload == nil || req.Payload.Status == "" {
			return nil, invalidField("payload", "status payload is required for update_status")
		}
		status := req.Payload.Status
		run = func(targetID uint) error { return s.UpdateStatus(actor, targetID, status) }
	case BatchForceLogout:
		run = func(targetID uint) error { return s.ForceLogout(actor, targetID) }
	case BatchDelete:
		run = func(targetID uint) error { return s.Delete(actor, targetID) }
	default:
		return nil, invalidField("action", "unknown batch action")
	}

	resp := &dto.BatchResponse{Action: req.Action, Results: make([]dto.BatchResult, 0, len(req.IDs))}
	for _, id := range req.IDs {
		if err := run(id); err != nil {
			resp.Results = append(resp.Results, dto.BatchResult{ID: id, Error: err.Error()})
			resp.Failed++
			continue
		}
		resp.Results = append(resp.Results, dto.BatchResult{ID: id, Success: true})
		resp.Succeeded++
	}
	return resp, nil
}

// CheckAvailability reports whether the given identity fields are free,
// optionally excluding one record (for edit forms).
func (s *UserService) CheckAvailability(req *dto.AvailabilityRequest) (*dto.AvailabilityResponse, error) {
	resp := &dto.AvailabilityResponse{}

	if req.Email != "" {
		free, err := s.fieldAvailable("email", normalizeEmail(req.Email), req.ExcludeID)
		if err != nil {
			return nil, err
		}
		resp.Email = &free
	}
	if req.Username != "" {
		free, err := s.fieldAvailable("username", req.Username, req.ExcludeID)
		if err != nil {
			return nil, err
		}
		resp.Username = &free
	}
	if req.NationalID != "" {
		if !validators.ValidateNationalID(req.NationalID) {
			taken := false
			resp.NationalID = &taken
			resp.NationalIDError = "invalid national ID"
		} else {
			free, err := s.fieldAvailable("national_id", validators.StripDigits(req.NationalID), req.ExcludeID)
			if err != nil {
				return nil, err
			}
			resp.NationalID = &free
		}
	}

	return resp, nil
}

// RegisterOptions feeds the registration form. The super_admin role is
// only offered to super admin actors.
func (s *UserService) RegisterOptions(actor *models.User) *dto.RegisterOptions {
	roles := make([]string, 0, len(models.Roles))
	for _, r := range models.Roles {
		if r == models.RoleSuperAdmin && !actor.IsSuperAdmin() {
			continue
		}
		roles = append(roles, r)
	}

	return &dto.RegisterOptions{
		Roles:          roles,
		Statuses:       models.Statuses,
		States:         models.StateCodes,
		DefaultModules: models.AllScope(),
		DefaultViews:   models.AllScope(),
	}
}

// CountByRole counts users holding the role.
func (s *UserService) CountByRole(role string) (int64, error) {
	var count int64
	err := s.db.Model(&models.User{}).Scopes(database.WithRole(role)).Count(&count).Error
	return count, err
}

// BootstrapMaster seeds the first super admin when none exists. No actor
// gates apply; there is nobody to act yet.
func (s *UserService) BootstrapMaster(name, email, username, nationalID, password string) (*models.User, error) {
	count, err := s.CountByRole(models.RoleSuperAdmin)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, nil
	}

	if !validators.ValidateEmail(email) {
		return nil, invalidField("email", "invalid email")
	}
	if !validators.ValidateUsername(username) {
		return nil, invalidField("username", "invalid username")
	}
	if !validators.ValidateNationalID(nationalID) {
		return nil, invalidField("national_id", "invalid national ID")
	}
	if len(password) < 6 {
		return nil, invalidField("password", "password must be at least 6 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		Name:           strings.TrimSpace(name),
		Email:          normalizeEmail(email),
		Username:       username,
		NationalID:     validators.StripDigits(nationalID),
		Password:       string(hash),
		Role:           models.RoleSuperAdmin,
		Status:         models.StatusActive,
		LoginStatus:    models.LoginStatusOffline,
		ModulesGranted: datatypes.NewJSONType(models.AllScope()),
		ViewsGranted:   datatypes.NewJSONType(models.AllScope()),
	}

	if err := s.db.Create(&user).Error; err != nil {
		return nil, storeError(err)
	}
	return &user, nil
}

// checkUniqueness verifies email, username and national ID are not held by
// a different record. Values must already be normalized.
func (s *UserService) checkUniqueness(email, username, nationalID string, excludeID uint) error {
	free, err := s.fieldAvailable("email", email, excludeID)
	if err != nil {
		return err
	}
	if !free {
		return ErrEmailTaken
	}

	free, err = s.fieldAvailable("username", username, excludeID)
	if err != nil {
		return err
	}
	if !free {
		return ErrUsernameTaken
	}

	free, err = s.fieldAvailable("national_id", nationalID, excludeID)
	if err != nil {
		return err
	}
	if !free {
		return ErrNationalIDTaken
	}

	return nil
}

func (s *UserService) fieldAvailable(column, value string, excludeID uint) (bool, error) {
	query := s.db.Model(&models.User{}).Where(column+" = ?", value)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count == 0, nil
}

// storeError maps a store-level uniqueness violation to Conflict. The
// database constraints are the final arbiter under racing writes.
func storeError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrConflict
	}
	return err
}

func normalizeEmail(email string) string {
	return validators.NormalizeEmail(email)
}

func userToResponse(u *models.User) dto.UserResponse {
	return dto.UserResponse{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		Username:    u.Username,
		NationalID:  validators.FormatNationalID(u.NationalID),
		Role:        u.Role,
		Status:      u.Status,
		LoginStatus: u.LoginStatus,

		JobTitle:      u.JobTitle,
		Phone:         u.Phone,
		Address:       u.Address,
		AddressNumber: u.AddressNumber,
		AddressExtra:  u.AddressExtra,
		District:      u.District,
		City:          u.City,
		State:         u.State,
		PostalCode:    formatPostal(u.PostalCode),
		Notes:         u.Notes,

		ModulesGranted: u.ModulesGranted.Data(),
		ViewsGranted:   u.ViewsGranted.Data(),

		CreatedBy: u.CreatedBy,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func formatPostal(code string) string {
	if code == "" {
		return ""
	}
	return validators.FormatPostalCode(code)
}
