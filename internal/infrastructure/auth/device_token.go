package auth

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/nicolasconil/gp-frontend-sub000/domain"
)

// DeviceTokenServiceImpl implements domain.DeviceTokenService. The device
// token is the gateway's own HTTP-only cookie value: a signed claim of the
// device identifier, so state keys cannot be forged client-side.
type DeviceTokenServiceImpl struct {
	secretKey []byte
	issuer    string
	ttl       time.Duration
}

// NewDeviceTokenService creates a new device token service
func NewDeviceTokenService(secretKey, issuer string, ttl time.Duration) domain.DeviceTokenService {
	return &DeviceTokenServiceImpl{
		secretKey: []byte(secretKey),
		issuer:    issuer,
		ttl:       ttl,
	}
}

// NewDeviceID generates a random device identifier.
func NewDeviceID() string {
	bytes := make([]byte, 16)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}

// Issue implements domain.DeviceTokenService
func (s *DeviceTokenServiceImpl) Issue(deviceID string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"device_id": deviceID,
		"iss":       s.issuer,
		"iat":       now.Unix(),
		"exp":       now.Add(s.ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secretKey)
}

// Validate implements domain.DeviceTokenService. Returns the device ID
// carried by a valid token.
func (s *DeviceTokenServiceImpl) Validate(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrSessionNotFound
		}
		return s.secretKey, nil
	})
	if err != nil || !token.Valid {
		return "", domain.ErrSessionNotFound
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", domain.ErrSessionNotFound
	}

	deviceID, ok := claims["device_id"].(string)
	if !ok || deviceID == "" {
		return "", domain.ErrSessionNotFound
	}

	if exp, ok := claims["exp"].(float64); ok {
		if time.Unix(int64(exp), 0).Before(time.Now()) {
			return "", domain.ErrSessionExpired
		}
	}

	return deviceID, nil
}
