package services

import (
	"time"

	"gorm.io/gorm"

	"retronova/models"
)

type StatsService struct {
	db *gorm.DB
}

func NewStatsService(db *gorm.DB) *StatsService {
	return &StatsService{db: db}
}

type GlobalStats struct {
	ActiveUsers          int64     `json:"active_users"`
	TotalArcades         int64     `json:"total_arcades"`
	TotalGames           int64     `json:"total_games"`
	ActivePromoCodes     int64     `json:"active_promo_codes"`
	TicketsInCirculation int64     `json:"total_tickets_in_circulation"`
	WaitingReservations  int64     `json:"waiting_reservations"`
	ReservationsLast24h  int64     `json:"reservations_last_24h"`
	Timestamp            time.Time `json:"timestamp"`
}

func (s *StatsService) Global() (*GlobalStats, error) {
	now := time.Now().UTC()
	stats := GlobalStats{Timestamp: now}

	s.db.Model(&models.User{}).Where("is_deleted = false").Count(&stats.ActiveUsers)
	s.db.Model(&models.Arcade{}).Where("is_deleted = false").Count(&stats.TotalArcades)
	s.db.Model(&models.Game{}).Where("is_deleted = false").Count(&stats.TotalGames)
	s.db.Model(&models.PromoCode{}).
		Where("is_deleted = false AND is_active = true").
		Where("valid_until IS NULL OR valid_until > ?", now).
		Count(&stats.ActivePromoCodes)
	s.db.Model(&models.User{}).
		Where("is_deleted = false").
		Select("COALESCE(SUM(tickets_balance), 0)").
		Scan(&stats.TicketsInCirculation)
	s.db.Model(&models.Reservation{}).
		Where("status = ? AND is_deleted = false", models.ReservationWaiting).
		Count(&stats.WaitingReservations)
	s.db.Model(&models.Reservation{}).
		Where("created_at >= ? AND is_deleted = false", now.Add(-24*time.Hour)).
		Count(&stats.ReservationsLast24h)

	return &stats, nil
}
