package comments

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/minhnghia2k3/lumigram/internal/api"
	"github.com/minhnghia2k3/lumigram/internal/domain"
	"github.com/minhnghia2k3/lumigram/internal/session"
	pkgerrors "github.com/minhnghia2k3/lumigram/pkg/errors"
	"github.com/minhnghia2k3/lumigram/pkg/logger"
)

// Service appends comments to posts without waiting for a full post
// re-fetch. The returned record combines the server-assigned id with the
// current user's cached display identity and the submission timestamp, so
// rendering never blocks on a second round trip.
type Service struct {
	client  api.Client
	session session.Store
	log     logger.Logger
	now     func() time.Time

	mu         sync.Mutex
	draft      string
	activePost string
}

func New(client api.Client, sess session.Store, log logger.Logger) *Service {
	return &Service{
		client:  client,
		session: sess,
		log:     log,
		now:     time.Now,
	}
}

// Submit posts text as a comment on postID. Empty or whitespace-only text
// returns nil with no request, as does an unauthenticated call. A network
// failure still yields a locally synthesized record (optimistic insert); the
// failure is logged.
func (s *Service) Submit(ctx context.Context, postID, text string) (*domain.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}
	if !s.session.Authenticated() {
		s.log.Warn("Comment refused, no access token", "post_id", postID)
		return nil, pkgerrors.ErrNotAuthenticated
	}

	username := "Anonymous"
	avatar := domain.DefaultProfilePicture
	if me := s.session.CurrentUser(); me != nil {
		username = me.Username
		avatar = me.ProfilePicture()
	}

	comment := &domain.Comment{
		PostID:         postID,
		Username:       username,
		ProfilePicture: avatar,
		Text:           text,
		CreatedAt:      s.now(),
	}

	id, err := s.client.AddComment(ctx, postID, text)
	if err != nil {
		s.log.Error("Failed to post comment, keeping optimistic record", "post_id", postID, "error", err)
	}
	if id == "" {
		id = strconv.FormatInt(s.now().UnixMilli(), 10)
	}
	comment.ID = id

	s.mu.Lock()
	s.draft = ""
	s.mu.Unlock()

	return comment, nil
}

// OpenPanel marks postID's comment panel as the open one. Only a single
// panel is open at a time; switching posts does not touch any post's comment
// list.
func (s *Service) OpenPanel(postID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activePost = postID
}

func (s *Service) ClosePanel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activePost = ""
}

// ActivePanel returns the post id whose panel is open, or empty.
func (s *Service) ActivePanel() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activePost
}

// SetDraft stores the in-progress comment text.
func (s *Service) SetDraft(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = text
}

func (s *Service) Draft() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}
