package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/xgym/backoffice-api/internal/domain/entity"
	domainRepo "github.com/xgym/backoffice-api/internal/domain/repository"
	"gorm.io/gorm"
)

type memberRepository struct {
	db *gorm.DB
}

// NewMemberRepository creates a new member repository
func NewMemberRepository(db *gorm.DB) domainRepo.MemberRepository {
	return &memberRepository{db: db}
}

func (r *memberRepository) Create(ctx context.Context, member *entity.Member) error {
	return r.db.WithContext(ctx).Create(member).Error
}

func (r *memberRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Member, error) {
	var member entity.Member
	err := r.db.WithContext(ctx).First(&member, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &member, err
}

func (r *memberRepository) GetByNumber(ctx context.Context, memberNumber int) (*entity.Member, error) {
	var member entity.Member
	err := r.db.WithContext(ctx).First(&member, "member_number = ?", memberNumber).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &member, err
}

func (r *memberRepository) GetByPhone(ctx context.Context, phone string) (*entity.Member, error) {
	var member entity.Member
	err := r.db.WithContext(ctx).First(&member, "phone = ?", phone).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &member, err
}

func (r *memberRepository) List(ctx context.Context, params *domainRepo.MemberFilterParams) ([]entity.Member, int64, error) {
	var members []entity.Member
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Member{})

	if params.Search != "" {
		like := "%" + params.Search + "%"
		query = query.Where("name LIKE ? OR phone LIKE ?", like, like)
	}
	if params.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Order("member_number ASC").
		Find(&members).Error

	return members, total, err
}

func (r *memberRepository) Update(ctx context.Context, member *entity.Member) error {
	return r.db.WithContext(ctx).Save(member).Error
}

func (r *memberRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Member{}, "id = ?", id).Error
}

func (r *memberRepository) NextMemberNumber(ctx context.Context) (int, error) {
	var max int
	err := r.db.WithContext(ctx).Model(&entity.Member{}).
		Select("COALESCE(MAX(member_number), 0)").
		Scan(&max).Error
	return max + 1, err
}
