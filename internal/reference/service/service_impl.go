package service

import (
	"context"

	referencedomain "github.com/smallbiznis/ledgerline/internal/reference/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB  *gorm.DB
	Log *zap.Logger
}

type Service struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewService(p Params) referencedomain.Service {
	return &Service{
		db:  p.DB,
		log: p.Log.Named("reference.service"),
	}
}

func (s *Service) ListClients(ctx context.Context, billerCode string) (map[string]referencedomain.Client, error) {
	var rows []referencedomain.Client
	err := s.db.WithContext(ctx).Raw(
		`SELECT id, client_id, client_code, biller_code, group_code, group_desc, service_line_code
		 FROM clients
		 WHERE biller_code = ?`,
		billerCode,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	clients := make(map[string]referencedomain.Client, len(rows))
	for _, row := range rows {
		clients[row.ClientID] = row
	}
	return clients, nil
}

func (s *Service) ListServiceLines(ctx context.Context) (map[string]referencedomain.ServiceLine, error) {
	var rows []referencedomain.ServiceLine
	err := s.db.WithContext(ctx).Raw(
		`SELECT code, description, master_code FROM service_lines`,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	lines := make(map[string]referencedomain.ServiceLine, len(rows))
	for _, row := range rows {
		lines[row.Code] = row
	}
	return lines, nil
}

func (s *Service) ListMasterServiceLines(ctx context.Context) (map[string]string, error) {
	var rows []referencedomain.MasterServiceLine
	err := s.db.WithContext(ctx).Raw(
		`SELECT code, name FROM master_service_lines`,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	masters := make(map[string]string, len(rows))
	for _, row := range rows {
		masters[row.Code] = row.Name
	}
	return masters, nil
}
