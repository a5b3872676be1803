package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	chargedomain "github.com/gabaoo/ping-pague-auto/internal/charge/domain"
	clientdomain "github.com/gabaoo/ping-pague-auto/internal/client/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	Repo       clientdomain.Repository
	ChargeRepo chargedomain.Repository
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	genID      *snowflake.Node
	repo       clientdomain.Repository
	chargeRepo chargedomain.Repository
}

func NewService(p Params) clientdomain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("client.service"),
		genID:      p.GenID,
		repo:       p.Repo,
		chargeRepo: p.ChargeRepo,
	}
}

func (s *Service) Create(ctx context.Context, req clientdomain.CreateClientRequest) (clientdomain.Client, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return clientdomain.Client{}, clientdomain.ErrInvalidName
	}
	phone := strings.TrimSpace(req.Phone)
	if phone == "" {
		return clientdomain.Client{}, clientdomain.ErrInvalidPhone
	}
	email := strings.TrimSpace(req.Email)
	if email != "" && !strings.Contains(email, "@") {
		return clientdomain.Client{}, clientdomain.ErrInvalidEmail
	}

	client := clientdomain.Client{
		ID:     s.genID.Generate(),
		UserID: req.UserID,
		Name:   name,
		Phone:  phone,
	}
	if email != "" {
		client.Email = &email
	}
	if notes := strings.TrimSpace(req.Notes); notes != "" {
		client.Notes = &notes
	}

	if err := s.repo.Insert(ctx, s.db, &client); err != nil {
		return clientdomain.Client{}, err
	}
	return client, nil
}

func (s *Service) List(ctx context.Context, req clientdomain.ListClientRequest) (clientdomain.ListClientResponse, error) {
	clients, err := s.repo.List(ctx, s.db, clientdomain.ListFilter{
		UserID: req.UserID,
		Name:   req.Name,
	})
	if err != nil {
		return clientdomain.ListClientResponse{}, err
	}

	ids := make([]snowflake.ID, 0, len(clients))
	for _, client := range clients {
		ids = append(ids, client.ID)
	}
	summaries, err := s.repo.Summarize(ctx, s.db, req.UserID, ids)
	if err != nil {
		return clientdomain.ListClientResponse{}, err
	}

	out := make([]clientdomain.ClientWithSummary, 0, len(clients))
	for _, client := range clients {
		summary, ok := summaries[client.ID]
		if !ok {
			summary = clientdomain.Summary{ClientID: client.ID}
		}
		out = append(out, clientdomain.ClientWithSummary{Client: client, Summary: summary})
	}
	return clientdomain.ListClientResponse{Clients: out}, nil
}

func (s *Service) GetByID(ctx context.Context, userID, id snowflake.ID) (clientdomain.ClientWithSummary, error) {
	client, err := s.repo.FindByID(ctx, s.db, userID, id)
	if err != nil {
		return clientdomain.ClientWithSummary{}, err
	}
	if client == nil {
		return clientdomain.ClientWithSummary{}, clientdomain.ErrClientNotFound
	}

	summaries, err := s.repo.Summarize(ctx, s.db, userID, []snowflake.ID{id})
	if err != nil {
		return clientdomain.ClientWithSummary{}, err
	}
	summary, ok := summaries[id]
	if !ok {
		summary = clientdomain.Summary{ClientID: id}
	}
	return clientdomain.ClientWithSummary{Client: *client, Summary: summary}, nil
}

func (s *Service) Update(ctx context.Context, req clientdomain.UpdateClientRequest) (clientdomain.Client, error) {
	client, err := s.repo.FindByID(ctx, s.db, req.UserID, req.ID)
	if err != nil {
		return clientdomain.Client{}, err
	}
	if client == nil {
		return clientdomain.Client{}, clientdomain.ErrClientNotFound
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return clientdomain.Client{}, clientdomain.ErrInvalidName
		}
		client.Name = name
	}
	if req.Phone != nil {
		phone := strings.TrimSpace(*req.Phone)
		if phone == "" {
			return clientdomain.Client{}, clientdomain.ErrInvalidPhone
		}
		client.Phone = phone
	}
	if req.Email != nil {
		email := strings.TrimSpace(*req.Email)
		switch {
		case email == "":
			client.Email = nil
		case !strings.Contains(email, "@"):
			return clientdomain.Client{}, clientdomain.ErrInvalidEmail
		default:
			client.Email = &email
		}
	}
	if req.Notes != nil {
		notes := strings.TrimSpace(*req.Notes)
		if notes == "" {
			client.Notes = nil
		} else {
			client.Notes = &notes
		}
	}

	if err := s.repo.Update(ctx, s.db, client); err != nil {
		return clientdomain.Client{}, err
	}
	return *client, nil
}

func (s *Service) Delete(ctx context.Context, userID, id snowflake.ID) error {
	client, err := s.repo.FindByID(ctx, s.db, userID, id)
	if err != nil {
		return err
	}
	if client == nil {
		return clientdomain.ErrClientNotFound
	}

	hasCharges, err := s.chargeRepo.HasChargesForClient(ctx, s.db, userID, id)
	if err != nil {
		return err
	}
	if hasCharges {
		return clientdomain.ErrClientHasCharges
	}

	return s.repo.Delete(ctx, s.db, userID, id)
}
