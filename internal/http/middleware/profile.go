package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nurpe/freelance-backoffice/internal/model"
)

const (
	profileKey    = "profile"
	ProfileHeader = "profile_id"
)

type ProfileResolver interface {
	Resolve(ctx context.Context, id uint) (*model.Profile, error)
}

type TokenParser interface {
	Enabled() bool
	Parse(token string) (uint, error)
}

// Profile resolves the caller from a bearer token when tokens are enabled,
// falling back to the profile_id header. Unresolvable callers get 401.
func Profile(profiles ProfileResolver, tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := callerID(c, tokens)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
			return
		}

		profile, err := profiles.Resolve(c.Request.Context(), id)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
			return
		}

		c.Set(profileKey, *profile)
		c.Next()
	}
}

func callerID(c *gin.Context, tokens TokenParser) (uint, bool) {
	if header := c.GetHeader("Authorization"); header != "" && tokens != nil && tokens.Enabled() {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return 0, false
		}
		id, err := tokens.Parse(strings.TrimSpace(parts[1]))
		return id, err == nil
	}

	raw := strings.TrimSpace(c.GetHeader(ProfileHeader))
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func MustProfile(c *gin.Context) (model.Profile, bool) {
	value, ok := c.Get(profileKey)
	if !ok {
		return model.Profile{}, false
	}
	profile, ok := value.(model.Profile)
	return profile, ok
}
