package controllers

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nuzul/api-go/config"
	"github.com/nuzul/api-go/models"
	"github.com/nuzul/api-go/utils"
)

// UploadController hands out presigned PUT URLs for avatar images on an
// R2/S3 bucket and attaches the uploaded object to the user on confirm.
type UploadController struct {
	DB       *gorm.DB
	R2Client *s3.Client
	R2Config *config.R2Config
}

type AvatarUploadRequest struct {
	FileName    string `json:"fileName" binding:"required"`
	ContentType string `json:"contentType" binding:"required"`
	FileSize    int64  `json:"fileSize" binding:"required"`
}

type PresignedURLResponse struct {
	UploadURL string `json:"uploadUrl"`
	FileURL   string `json:"fileUrl"`
	Key       string `json:"key"`
	ExpiresIn int    `json:"expiresIn"`
}

const (
	maxAvatarBytes  = 5 << 20
	presignExpiry   = 15 * time.Minute
	avatarKeyPrefix = "avatars"
)

func NewUploadController(db *gorm.DB) *UploadController {
	r2Config := config.GetR2Config()

	r2Client := s3.New(s3.Options{
		BaseEndpoint: aws.String(fmt.Sprintf("https://%s.r2.cloudflarestorage.com", r2Config.AccountID)),
		Credentials: credentials.NewStaticCredentialsProvider(
			r2Config.AccessKeyID,
			r2Config.SecretAccessKey,
			"",
		),
		Region: r2Config.Region,
	})

	return &UploadController{
		DB:       db,
		R2Client: r2Client,
		R2Config: r2Config,
	}
}

// GetAvatarUploadURL handles POST /uploads/avatar.
func (uc *UploadController) GetAvatarUploadURL(c *gin.Context) {
	user := utils.GetUser(c)
	var req AvatarUploadRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, StandardResponse{Success: false, Message: err.Error()})
		return
	}

	if !strings.HasPrefix(req.ContentType, "image/") {
		c.JSON(http.StatusBadRequest, StandardResponse{Success: false, Message: "Avatar must be an image"})
		return
	}
	if req.FileSize > maxAvatarBytes {
		c.JSON(http.StatusBadRequest, StandardResponse{Success: false, Message: "Avatar exceeds the 5MB limit"})
		return
	}

	ext := filepath.Ext(req.FileName)
	key := fmt.Sprintf("%s/%d/%s%s", avatarKeyPrefix, user.UserID, uuid.New().String(), ext)

	presigner := s3.NewPresignClient(uc.R2Client)
	presigned, err := presigner.PresignPutObject(context.TODO(), &s3.PutObjectInput{
		Bucket:      aws.String(uc.R2Config.BucketName),
		Key:         aws.String(key),
		ContentType: aws.String(req.ContentType),
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		c.JSON(http.StatusInternalServerError, StandardResponse{Success: false, Message: "Could not create upload URL"})
		return
	}

	c.JSON(http.StatusOK, StandardResponse{
		Success: true,
		Data: PresignedURLResponse{
			UploadURL: presigned.URL,
			FileURL:   fmt.Sprintf("%s/%s", uc.R2Config.PublicURL, key),
			Key:       key,
			ExpiresIn: int(presignExpiry.Seconds()),
		},
	})
}

// ConfirmAvatarUpload handles POST /uploads/avatar/confirm: verifies the
// object landed in the bucket, then points the user's avatar at it.
func (uc *UploadController) ConfirmAvatarUpload(c *gin.Context) {
	user := utils.GetUser(c)
	var req struct {
		Key string `json:"key" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, StandardResponse{Success: false, Message: err.Error()})
		return
	}

	expectedPrefix := fmt.Sprintf("%s/%d/", avatarKeyPrefix, user.UserID)
	if !strings.HasPrefix(req.Key, expectedPrefix) {
		c.JSON(http.StatusForbidden, StandardResponse{Success: false, Message: "Key does not belong to you"})
		return
	}

	_, err := uc.R2Client.HeadObject(context.TODO(), &s3.HeadObjectInput{
		Bucket: aws.String(uc.R2Config.BucketName),
		Key:    aws.String(req.Key),
	})
	if err != nil {
		c.JSON(http.StatusNotFound, StandardResponse{Success: false, Message: "Uploaded file not found"})
		return
	}

	avatarURL := fmt.Sprintf("%s/%s", uc.R2Config.PublicURL, req.Key)
	if err := uc.DB.Model(&models.User{}).Where("id = ?", user.UserID).
		Update("avatar", avatarURL).Error; err != nil {
		c.JSON(http.StatusInternalServerError, StandardResponse{Success: false, Message: "Could not update avatar"})
		return
	}

	c.JSON(http.StatusOK, StandardResponse{
		Success: true,
		Data:    gin.H{"avatar": avatarURL},
	})
}
