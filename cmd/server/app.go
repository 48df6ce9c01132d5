package main

import (
	"fmt"
	"log/slog"

	"bloodlink/internal/admin/adapters"
	adminservice "bloodlink/internal/admin/service"
	authservice "bloodlink/internal/auth/service"
	"bloodlink/internal/chatbot"
	donationservice "bloodlink/internal/donation/service"
	donorservice "bloodlink/internal/donor/service"
	emergencyservice "bloodlink/internal/emergency/service"
	inventoryservice "bloodlink/internal/inventory/service"
	jwttoken "bloodlink/internal/jwt_token"
	organizationservice "bloodlink/internal/organization/service"
	"bloodlink/internal/platform/config"
	"bloodlink/internal/platform/metrics"
	seekerservice "bloodlink/internal/seeker/service"
	"bloodlink/pkg/secrets"
)

// app is the set of services behind the HTTP handlers.
type app struct {
	jwt           *jwttoken.JWTService
	auth          *authservice.Service
	donors        *donorservice.Service
	donations     *donationservice.Service
	organizations *organizationservice.Service
	inventory     *inventoryservice.Service
	emergencies   *emergencyservice.Service
	seekers       *seekerservice.Service
	admin         *adminservice.Service
	chatbot       *chatbot.Bot
}

func newApp(cfg config.Server, in *infra, log *slog.Logger, m *metrics.Metrics) (*app, error) {
	jwt := jwttoken.NewJWTService(cfg.Auth.JWTSigningKey, cfg.Auth.JWTIssuer, cfg.Auth.JWTAudience)
	auth := authservice.New(in.users, jwt, in.revocations, secrets.NewHasher(cfg.Auth.BcryptCost),
		authservice.WithLogger(log),
		authservice.WithMetrics(m),
		authservice.WithAccessTokenTTL(cfg.Auth.AccessTokenTTL),
	)

	donors := donorservice.New(in.donors, in.donations, auth, in.runner,
		donorservice.WithLogger(log),
		donorservice.WithMetrics(m),
		donorservice.WithStreamTick(cfg.Rules.EligibilityStreamTick),
		donorservice.WithSearchLimit(cfg.Rules.DefaultSearchLimit),
	)
	donations := donationservice.New(in.donations,
		donationservice.WithLogger(log),
		donationservice.WithMetrics(m),
		donationservice.WithAvailability(donors),
		donationservice.WithDonors(donors),
	)

	bot, err := chatbot.Load(cfg.ChatbotFile)
	if err != nil {
		return nil, fmt.Errorf("load chatbot content: %w", err)
	}

	return &app{
		jwt:       jwt,
		auth:      auth,
		donors:    donors,
		donations: donations,
		organizations: organizationservice.New(in.organizations, auth, in.runner,
			organizationservice.WithLogger(log),
		),
		inventory: inventoryservice.New(in.inventory,
			inventoryservice.WithLogger(log),
			inventoryservice.WithMetrics(m),
		),
		emergencies: emergencyservice.New(in.emergencies, in.notifier,
			emergencyservice.WithLogger(log),
			emergencyservice.WithMetrics(m),
			emergencyservice.WithNotifyTimeout(cfg.Kafka.NotifyTimeout),
		),
		seekers: seekerservice.New(in.seekers, in.cooldown,
			seekerservice.WithLogger(log),
			seekerservice.WithMetrics(m),
			seekerservice.WithCooldown(cfg.Rules.SeekerCooldown),
		),
		admin: adminservice.New(
			adapters.NewDonorStoreAdapter(in.donors),
			adapters.NewDonationStoreAdapter(in.donations),
			adminservice.Counters{
				Organizations:     in.organizations.Count,
				ActiveEmergencies: in.emergencies.CountActive,
				SeekerSubmissions: in.seekers.Count,
			},
			auth,
			in.runner,
			adminservice.WithLogger(log),
		),
		chatbot: bot,
	}, nil
}
