package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Size limits enforced before anything is forwarded to the CDN.
const (
	MaxImageSize = 20 << 20 // 20MB
	MaxVideoSize = 50 << 20 // 50MB
)

// UploadAuth is the signed token set a client needs to upload directly to
// the media CDN.
type UploadAuth struct {
	Signature string `json:"signature"`
	Expire    int64  `json:"expire"`
	Token     string `json:"token"`
}

// MediaService wraps the ImageKit-compatible media CDN: signed upload
// authentication plus a server-side upload proxy for book covers and videos.
type MediaService struct {
	publicKey      string
	privateKey     string
	uploadEndpoint string
	client         *http.Client
}

func NewMediaService(publicKey, privateKey, uploadEndpoint string) *MediaService {
	return &MediaService{
		publicKey:      publicKey,
		privateKey:     privateKey,
		uploadEndpoint: uploadEndpoint,
		client:         &http.Client{Timeout: 60 * time.Second},
	}
}

// UploadAuthParams produces a fresh single-use token: signature is
// HMAC-SHA1(token + expire) under the private key, expire is 30 minutes out.
func (s *MediaService) UploadAuthParams() UploadAuth {
	token := uuid.NewString()
	expire := time.Now().Add(30 * time.Minute).Unix()

	mac := hmac.New(sha1.New, []byte(s.privateKey))
	mac.Write([]byte(token + strconv.FormatInt(expire, 10)))

	return UploadAuth{
		Signature: hex.EncodeToString(mac.Sum(nil)),
		Expire:    expire,
		Token:     token,
	}
}

// ValidateSize rejects files over the per-kind limit. kind is "image" or
// "video".
func ValidateSize(kind string, size int64) error {
	switch kind {
	case "image":
		if size > MaxImageSize {
			return fmt.Errorf("file size too large, image limit is %dMB", MaxImageSize>>20)
		}
	case "video":
		if size > MaxVideoSize {
			return fmt.Errorf("file size too large, video limit is %dMB", MaxVideoSize>>20)
		}
	default:
		return fmt.Errorf("unsupported upload type %q", kind)
	}
	return nil
}

type uploadResponse struct {
	FilePath string `json:"filePath"`
}

// Upload forwards the file to the CDN upload API and returns the stored file
// path. The CDN authenticates the server with the private key.
func (s *MediaService) Upload(ctx context.Context, kind, fileName, folder string, file io.Reader, size int64) (string, error) {
	if err := ValidateSize(kind, size); err != nil {
		return "", err
	}

	pr, pw := io.Pipe()
	form := multipart.NewWriter(pw)
	go func() {
		part, err := form.CreateFormFile("file", fileName)
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, file); err != nil {
			pw.CloseWithError(err)
			return
		}
		_ = form.WriteField("fileName", fileName)
		_ = form.WriteField("folder", folder)
		_ = form.WriteField("useUniqueFileName", "true")
		pw.CloseWithError(form.Close())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.uploadEndpoint, pr)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.SetBasicAuth(s.privateKey, "")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTransient, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("media upload failed with status %d: %s", resp.StatusCode, body)
	}

	var result uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}
	return result.FilePath, nil
}
