package services

import (
	"strings"
	"time"

	"gorm.io/gorm"

	"retronova/helpers"
	"retronova/models"
)

type PromoService struct {
	db *gorm.DB
}

func NewPromoService(db *gorm.DB) *PromoService {
	return &PromoService{db: db}
}

type CreatePromoCodeRequest struct {
	Code               string     `json:"code"`
	TicketsReward      int        `json:"tickets_reward"`
	IsSingleUseGlobal  bool       `json:"is_single_use_global"`
	IsSingleUsePerUser *bool      `json:"is_single_use_per_user"`
	UsageLimit         *int       `json:"usage_limit"`
	ValidFrom          *time.Time `json:"valid_from"`
	ValidUntil         *time.Time `json:"valid_until"`
	IsActive           *bool      `json:"is_active"`
}

func (s *PromoService) Create(req CreatePromoCodeRequest) (*models.PromoCode, error) {
	code := normalizeCode(req.Code)
	if code == "" {
		return nil, helpers.BadRequest("code is required")
	}
	if req.TicketsReward <= 0 {
		return nil, helpers.BadRequest("tickets reward must be positive")
	}
	if err := validatePromoDates(req.ValidFrom, req.ValidUntil); err != nil {
		return nil, err
	}

	var count int64
	s.db.Model(&models.PromoCode{}).Where("code = ?", code).Count(&count)
	if count > 0 {
		return nil, helpers.BadRequest("this promo code already exists")
	}

	perUser := true
	if req.IsSingleUsePerUser != nil {
		perUser = *req.IsSingleUsePerUser
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	promo := models.PromoCode{
		Code:               code,
		TicketsReward:      req.TicketsReward,
		IsSingleUseGlobal:  req.IsSingleUseGlobal,
		IsSingleUsePerUser: perUser,
		UsageLimit:         req.UsageLimit,
		ValidFrom:          req.ValidFrom,
		ValidUntil:         req.ValidUntil,
		IsActive:           active,
	}
	if err := s.db.Create(&promo).Error; err != nil {
		return nil, err
	}
	return &promo, nil
}

func (s *PromoService) List(includeExpired bool) ([]models.PromoCode, error) {
	query := s.db.Where("is_deleted = false")
	if !includeExpired {
		query = query.Where("valid_until IS NULL OR valid_until > ?", time.Now().UTC())
	}

	var promos []models.PromoCode
	err := query.Order("created_at DESC").Find(&promos).Error
	return promos, err
}

type UpdatePromoCodeRequest struct {
	TicketsReward      *int       `json:"tickets_reward"`
	IsSingleUseGlobal  *bool      `json:"is_single_use_global"`
	IsSingleUsePerUser *bool      `json:"is_single_use_per_user"`
	UsageLimit         *int       `json:"usage_limit"`
	ValidFrom          *time.Time `json:"valid_from"`
	ValidUntil         *time.Time `json:"valid_until"`
	IsActive           *bool      `json:"is_active"`
}

func (s *PromoService) Update(promoID uint, req UpdatePromoCodeRequest) (*models.PromoCode, error) {
	promo, err := s.getLive(promoID)
	if err != nil {
		return nil, err
	}

	validFrom := promo.ValidFrom
	validUntil := promo.ValidUntil
	if req.ValidFrom != nil {
		validFrom = req.ValidFrom
	}
	if req.ValidUntil != nil {
		validUntil = req.ValidUntil
	}
	if err := validatePromoDates(validFrom, validUntil); err != nil {
		return nil, err
	}

	if req.TicketsReward != nil {
		if *req.TicketsReward <= 0 {
			return nil, helpers.BadRequest("tickets reward must be positive")
		}
		promo.TicketsReward = *req.TicketsReward
	}
	if req.IsSingleUseGlobal != nil {
		promo.IsSingleUseGlobal = *req.IsSingleUseGlobal
	}
	if req.IsSingleUsePerUser != nil {
		promo.IsSingleUsePerUser = *req.IsSingleUsePerUser
	}
	if req.UsageLimit != nil {
		promo.UsageLimit = req.UsageLimit
	}
	if req.IsActive != nil {
		promo.IsActive = *req.IsActive
	}
	promo.ValidFrom = validFrom
	promo.ValidUntil = validUntil

	if err := s.db.Save(promo).Error; err != nil {
		return nil, err
	}
	return promo, nil
}

func (s *PromoService) ToggleActive(promoID uint) (*models.PromoCode, error) {
	promo, err := s.getLive(promoID)
	if err != nil {
		return nil, err
	}

	promo.IsActive = !promo.IsActive
	if err := s.db.Save(promo).Error; err != nil {
		return nil, err
	}
	return promo, nil
}

// ExpiringSoon lists active codes whose expiry falls within the next
// daysAhead days.
func (s *PromoService) ExpiringSoon(daysAhead int) ([]models.PromoCode, error) {
	now := time.Now().UTC()
	cutoff := now.AddDate(0, 0, daysAhead)

	var promos []models.PromoCode
	err := s.db.
		Where("is_deleted = false AND is_active = true").
		Where("valid_until IS NOT NULL AND valid_until > ? AND valid_until <= ?", now, cutoff).
		Order("valid_until").
		Find(&promos).Error
	return promos, err
}

func (s *PromoService) getLive(promoID uint) (*models.PromoCode, error) {
	var promo models.PromoCode
	if err := s.db.Where("id = ? AND is_deleted = false", promoID).First(&promo).Error; err != nil {
		return nil, helpers.NotFound("promo code not found")
	}
	return &promo, nil
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func validatePromoDates(from, until *time.Time) error {
	if from != nil && until != nil && !until.After(*from) {
		return helpers.BadRequest("expiry date must be after start date")
	}
	return nil
}
