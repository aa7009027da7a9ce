package repository

import "context"

type Statistics struct {
	TotalUsers       int `json:"totalUsers"`
	TotalClasses     int `json:"totalClasses"`
	TotalMakhdoumeen int `json:"totalMakhdoumeen"`
	TotalEvents      int `json:"totalEvents"`
	UpcomingEvents   int `json:"upcomingEvents"`
	AdminCount       int `json:"adminCount"`
	AminCount        int `json:"aminCount"`
	KhademCount      int `json:"khademCount"`
}

// GetStatistics computes the dashboard counters. Counts follow the console
// conventions: users, classes and children only while active, events
// regardless of status.
func (s *Store) GetStatistics(ctx context.Context) (Statistics, error) {
	var stats Statistics
	row := s.pool.QueryRow(ctx, `
		SELECT
			(SELECT count(*) FROM users WHERE is_active),
			(SELECT count(*) FROM classes WHERE is_active),
			(SELECT count(*) FROM makhdoumeen WHERE is_active),
			(SELECT count(*) FROM events),
			(SELECT count(*) FROM events WHERE status = 'upcoming'),
			(SELECT count(*) FROM users WHERE role = 'admin' AND is_active),
			(SELECT count(*) FROM users WHERE role = 'amin' AND is_active),
			(SELECT count(*) FROM users WHERE role = 'khadem' AND is_active)
	`)
	err := row.Scan(
		&stats.TotalUsers,
		&stats.TotalClasses,
		&stats.TotalMakhdoumeen,
		&stats.TotalEvents,
		&stats.UpcomingEvents,
		&stats.AdminCount,
		&stats.AminCount,
		&stats.KhademCount,
	)
	return stats, err
}
