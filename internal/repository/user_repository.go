package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/besimplit/task-tracker/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

var (
	// ErrClearTaskReferences is returned when nulling task references fails inside the delete transaction.
	ErrClearTaskReferences = errors.New("user repository: clear task references failed")
	// ErrClearGroups is returned when removing group memberships fails inside the delete transaction.
	ErrClearGroups = errors.New("user repository: clear group memberships failed")
)

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create inserts the user and its group memberships in one transaction
func (r *GormUserRepository) Create(ctx context.Context, user *models.User, groups ...models.Group) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(user).Error; err != nil {
			return err
		}
		if len(groups) == 0 {
			return nil
		}
		return tx.Model(user).Association("Groups").Append(groups)
	})
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(ctx context.Context, id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Preload("Groups").First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail finds a user by email
func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Preload("Groups").Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// ListByGroup lists group members
func (r *GormUserRepository) ListByGroup(ctx context.Context, groupName string) ([]models.User, error) {
	users := []models.User{}
	err := r.db.WithContext(ctx).
		Joins("JOIN user_groups ON user_groups.user_id = users.id").
		Joins("JOIN auth_groups ON auth_groups.id = user_groups.group_id").
		Where("auth_groups.name = ?", groupName).
		Order("users.email ASC").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// TaskStatsByGroup counts assigned and completed tasks per group member
func (r *GormUserRepository) TaskStatsByGroup(ctx context.Context, groupName string) ([]UserTaskStats, error) {
	stats := []UserTaskStats{}
	err := r.db.WithContext(ctx).
		Table("users").
		Select("users.id AS user_id, users.email AS email, " +
			"COUNT(tasks.id) AS total, " +
			"COALESCE(SUM(CASE WHEN tasks.completed THEN 1 ELSE 0 END), 0) AS completed").
		Joins("JOIN user_groups ON user_groups.user_id = users.id").
		Joins("JOIN auth_groups ON auth_groups.id = user_groups.group_id").
		Joins("LEFT JOIN tasks ON tasks.assigned_to_id = users.id").
		Where("auth_groups.name = ?", groupName).
		Group("users.id, users.email").
		Order("total DESC, users.id ASC").
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// FindGroups finds groups by name
func (r *GormUserRepository) FindGroups(ctx context.Context, names ...string) ([]models.Group, error) {
	groups := []models.Group{}
	if len(names) == 0 {
		return groups, nil
	}
	if err := r.db.WithContext(ctx).Where("name IN ?", names).Order("id ASC").Find(&groups).Error; err != nil {
		return nil, err
	}
	return groups, nil
}

// SetActive updates the active flag. A missing user returns gorm.ErrRecordNotFound.
func (r *GormUserRepository) SetActive(ctx context.Context, id uint64, active bool) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("is_active", active)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes the user. Tasks that referenced the user as assignee or
// creator keep existing with the reference set to NULL.
func (r *GormUserRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Task{}).Where("assigned_to_id = ?", id).
			Update("assigned_to_id", nil).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrClearTaskReferences, err)
		}
		if err := tx.Model(&models.Task{}).Where("created_by_id = ?", id).
			Update("created_by_id", nil).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrClearTaskReferences, err)
		}

		if err := tx.Exec("DELETE FROM user_groups WHERE user_id = ?", id).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrClearGroups, err)
		}

		res := tx.Delete(&models.User{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
