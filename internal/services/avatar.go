package services

import (
	"bytes"
	"context"
	"encoding/hex"
	"fmt"
	"image/color"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"gorm.io/gorm"

	"github.com/voxhealth/voxhealth-backend/internal/clients/gcp"
	"github.com/voxhealth/voxhealth-backend/internal/data/repos/user"
	"github.com/voxhealth/voxhealth-backend/internal/domain"
	"github.com/voxhealth/voxhealth-backend/internal/platform/logger"
)

// AvatarService renders the default initials avatar new users get.
type AvatarService interface {
	CreateAndUploadUserAvatar(ctx context.Context, tx *gorm.DB, u *domain.User) error
	GenerateUserAvatar(u *domain.User) (bytes.Buffer, error)
}

var defaultAvatarColors = []color.NRGBA{
	{R: 0x3B, G: 0x82, B: 0xF6, A: 0xFF},
	{R: 0x8B, G: 0x5C, B: 0xF6, A: 0xFF},
	{R: 0xEC, G: 0x48, B: 0x99, A: 0xFF},
	{R: 0x10, G: 0xB9, B: 0x81, A: 0xFF},
	{R: 0xF5, G: 0x9E, B: 0x0B, A: 0xFF},
	{R: 0xEF, G: 0x44, B: 0x44, A: 0xFF},
	{R: 0x06, G: 0xB6, B: 0xD4, A: 0xFF},
}

type avatarService struct {
	db            *gorm.DB
	log           *logger.Logger
	userRepo      user.UserRepo
	bucketService gcp.BucketService

	bgColors   []color.NRGBA
	colorByHex map[string]color.NRGBA

	fontFace font.Face
}

func NewAvatarService(db *gorm.DB, log *logger.Logger, userRepo user.UserRepo, bucketService gcp.BucketService) (AvatarService, error) {
	serviceLog := log.With("service", "AvatarService")

	fontPath := strings.TrimSpace(os.Getenv("AVATAR_FONT"))
	if fontPath == "" {
		return nil, fmt.Errorf("env var AVATAR_FONT is empty")
	}
	serviceLog.Info("Loading avatar font", "font", fontPath)

	face, err := loadFontFace(fontPath, 206)
	if err != nil {
		return nil, fmt.Errorf("could not load avatar font: %w", err)
	}

	colorByHex := make(map[string]color.NRGBA, len(defaultAvatarColors))
	for _, c := range defaultAvatarColors {
		colorByHex[nrgbaToHex(c)] = c
	}

	return &avatarService{
		db:            db,
		log:           serviceLog,
		userRepo:      userRepo,
		bucketService: bucketService,
		bgColors:      defaultAvatarColors,
		colorByHex:    colorByHex,
		fontFace:      face,
	}, nil
}

func (as *avatarService) CreateAndUploadUserAvatar(ctx context.Context, tx *gorm.DB, u *domain.User) error {
	as.ensureUserAvatarColor(u)

	buf, err := as.GenerateUserAvatar(u)
	if err != nil {
		return err
	}

	oldKey := strings.TrimSpace(u.AvatarBucketKey)

	// Versioned key so CDNs never serve a stale object.
	newKey := fmt.Sprintf("user_avatar/%s/%d.png", u.ID.String(), time.Now().UnixNano())

	if err := as.bucketService.UploadFile(ctx, gcp.BucketCategoryAvatar, newKey, bytes.NewReader(buf.Bytes())); err != nil {
		return fmt.Errorf("upload user avatar: %w", err)
	}

	u.AvatarBucketKey = newKey
	u.AvatarURL = as.bucketService.GetPublicURL(gcp.BucketCategoryAvatar, newKey)

	if oldKey != "" && oldKey != newKey {
		if err := as.bucketService.DeleteFile(ctx, gcp.BucketCategoryAvatar, oldKey); err != nil {
			as.log.Warn("failed to delete old avatar (ignored)", "oldKey", oldKey, "error", err)
		}
	}

	return nil
}

func (as *avatarService) GenerateUserAvatar(u *domain.User) (bytes.Buffer, error) {
	const size = 512
	as.ensureUserAvatarColor(u)

	dc := gg.NewContext(size, size)

	dc.DrawCircle(float64(size)/2, float64(size)/2, float64(size)/2)
	dc.Clip()

	base := as.pickColor(u.AvatarColor)
	dc.SetColor(base)
	dc.DrawRectangle(0, 0, float64(size), float64(size))
	dc.Fill()

	initials := computeInitials(u.FirstName, u.LastName)

	dc.SetFontFace(as.fontFace)
	tw, th := dc.MeasureString(initials)
	cx, cy := float64(size)/2, float64(size)/2

	dc.SetColor(color.White)
	dc.DrawString(initials, cx-(tw/2)+5, cy+(th/2)-10)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return buf, fmt.Errorf("encode PNG: %w", err)
	}
	return buf, nil
}

func (as *avatarService) ensureUserAvatarColor(u *domain.User) {
	if strings.TrimSpace(u.AvatarColor) != "" {
		n := normalizeHex(u.AvatarColor)
		if n != "" {
			if _, ok := as.colorByHex[n]; ok {
				u.AvatarColor = n
				return
			}
		}
	}
	pick := as.bgColors[rand.Intn(len(as.bgColors))]
	u.AvatarColor = nrgbaToHex(pick)
}

func (as *avatarService) pickColor(hexStr string) color.NRGBA {
	h := normalizeHex(hexStr)
	if h != "" {
		if c, ok := as.colorByHex[h]; ok {
			return c
		}
	}
	return as.bgColors[rand.Intn(len(as.bgColors))]
}

func normalizeHex(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	s = strings.ToUpper(s)
	if len(s) != 7 {
		return ""
	}
	if _, err := hex.DecodeString(s[1:]); err != nil {
		return ""
	}
	return s
}

func nrgbaToHex(c color.NRGBA) string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

func computeInitials(first, last string) string {
	fInit := "?"
	if len(first) > 0 {
		fInit = strings.ToUpper(first[:1])
	}
	lInit := "?"
	if len(last) > 0 {
		lInit = strings.ToUpper(last[:1])
	}
	return fInit + lInit
}

func loadFontFace(fontPath string, size float64) (font.Face, error) {
	fontBytes, err := os.ReadFile(fontPath)
	if err != nil {
		return nil, fmt.Errorf("read font file: %w", err)
	}
	parsedFont, err := truetype.Parse(fontBytes)
	if err != nil {
		return nil, fmt.Errorf("parse TTF: %w", err)
	}
	face := truetype.NewFace(parsedFont, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	return face, nil
}
