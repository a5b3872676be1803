package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
)

type testCleanupRequest struct {
	Prefix string `json:"prefix"`
}

// TestCleanup removes the current tenant's data for clients whose name
// carries the given prefix. E2E suites use it to reset between runs; in
// production the route answers 404 as if it did not exist.
func (s *Server) TestCleanup(c *gin.Context) {
	if s.cfg.IsProduction() {
		AbortWithError(c, ErrNotFound)
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req testCleanupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	prefix := strings.TrimSpace(req.Prefix)
	if prefix == "" {
		AbortWithError(c, newValidationError("prefix", "required", "prefix is required"))
		return
	}

	ctx := c.Request.Context()
	clientIDs, err := s.loadClientIDsByPrefix(ctx, userID, prefix)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if err := s.deleteClientData(ctx, userID, clientIDs); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) loadClientIDsByPrefix(ctx context.Context, userID snowflake.ID, prefix string) ([]int64, error) {
	like := strings.TrimSpace(prefix) + "%"
	var clientIDs []int64
	if err := s.db.WithContext(ctx).
		Table("clients").
		Select("id").
		Where("user_id = ? AND name LIKE ?", userID, like).
		Scan(&clientIDs).Error; err != nil {
		return nil, err
	}
	return clientIDs, nil
}

func (s *Server) deleteClientData(ctx context.Context, userID snowflake.ID, clientIDs []int64) error {
	if len(clientIDs) == 0 {
		return nil
	}
	queries := []string{
		`DELETE FROM notifications WHERE user_id = ? AND client_id IN ?`,
		`DELETE FROM charges WHERE user_id = ? AND client_id IN ?`,
		`DELETE FROM clients WHERE user_id = ? AND id IN ?`,
	}
	for _, query := range queries {
		if err := s.db.WithContext(ctx).Exec(query, userID, clientIDs).Error; err != nil {
			return err
		}
	}
	return nil
}
