package services

import (
	"context"
	"strings"
	"time"

	"frtutracker/models"
	"frtutracker/utils"
)

// TechnicianDirectory answers whether a name is a known technician.
type TechnicianDirectory interface {
	Contains(ctx context.Context, name string) bool
}

// SessionService signs technicians in.
type SessionService struct {
	directory    TechnicianDirectory
	passcodeHash string
	ttl          time.Duration
}

// NewSessionService creates a SessionService. An empty passcodeHash lets any
// directory member sign in without a passcode.
func NewSessionService(directory TechnicianDirectory, passcodeHash string, ttl time.Duration) *SessionService {
	return &SessionService{
		directory:    directory,
		passcodeHash: passcodeHash,
		ttl:          ttl,
	}
}

// Login checks the technician and passcode and issues a token.
func (s *SessionService) Login(ctx context.Context, req models.SessionRequest) (models.SessionResponse, error) {
	name := strings.TrimSpace(req.Technician)
	if !s.directory.Contains(ctx, name) {
		return models.SessionResponse{}, ErrUnknownTechnician
	}
	if s.passcodeHash != "" && !utils.CheckPasscode(s.passcodeHash, req.Passcode) {
		return models.SessionResponse{}, ErrInvalidPasscode
	}

	token, expiresAt, err := utils.GenerateToken(name, s.ttl)
	if err != nil {
		return models.SessionResponse{}, err
	}
	return models.SessionResponse{
		Token:      token,
		Technician: name,
		ExpiresAt:  expiresAt,
	}, nil
}
