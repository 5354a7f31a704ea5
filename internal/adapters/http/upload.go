package http

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/pairchat/pairchat/internal/domain"
	"github.com/pairchat/pairchat/internal/store"
)

// UploadService accepts media files for a room and hands back an opaque
// reference under /uploads/. It validates room and password on its own;
// the coordinator never sees an upload until the client sends the
// reference as a message.
type UploadService struct {
	Rooms    *store.RoomStore
	Dir      string
	MaxBytes int64
}

// Type is not required here: a missing kind answers bad_type, not
// missing_fields, so it is validated after the field checks.
type uploadForm struct {
	RoomCode string `form:"roomCode" binding:"required"`
	Password string `form:"password" binding:"required"`
	Name     string `form:"name" binding:"required"`
	Type     string `form:"type"`
}

func (s *UploadService) Handle(c *gin.Context) {
	if s.MaxBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.MaxBytes)
	}

	var form uploadForm
	if err := c.ShouldBind(&form); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			fail(c, http.StatusInternalServerError, "upload_failed")
			return
		}
		fail(c, http.StatusBadRequest, "missing_fields")
		return
	}

	code := domain.NormalizeCode(form.RoomCode)
	pass := domain.CleanText(form.Password, domain.MaxPasswordLen)
	name := domain.CleanText(form.Name, domain.MaxNameLen)
	kind := domain.MessageKind(domain.CleanText(form.Type, 10))
	if code == "" || pass == "" || name == "" {
		fail(c, http.StatusBadRequest, "missing_fields")
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		fail(c, http.StatusBadRequest, "no_file")
		return
	}
	if !kind.Media() {
		fail(c, http.StatusBadRequest, "bad_type")
		return
	}

	room, ok := s.Rooms.Get(code)
	if !ok {
		fail(c, http.StatusNotFound, "room_not_found")
		return
	}
	if room.Password != pass {
		fail(c, http.StatusForbidden, "bad_password")
		return
	}

	stored := fmt.Sprintf("%d_%s%s", time.Now().UnixMilli(), uuid.NewString(), filepath.Ext(file.Filename))
	if err := c.SaveUploadedFile(file, filepath.Join(s.Dir, stored)); err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Str("room", string(code)).Msg("upload write failed")
		fail(c, http.StatusInternalServerError, "upload_failed")
		return
	}

	log.Info().Str("module", "adapters.http").Str("room", string(code)).Str("name", name).Str("kind", string(kind)).Str("file", stored).Msg("upload stored")
	c.JSON(http.StatusOK, gin.H{"ok": true, "url": "/uploads/" + stored})
}

func fail(c *gin.Context, status int, reason string) {
	c.JSON(status, gin.H{"ok": false, "error": reason})
}
