package auth

import (
	"errors"
	"os"

	"campusgate.io/entities"
	"campusgate.io/infrastructure/logger"
	"github.com/golang-jwt/jwt"
)

func GenerateAuthToken(claimsData ClaimsData) (*string, error) {
	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"iss":       os.Getenv("JWT_ISSUER"),
		"userID":    claimsData.UserID,
		"exp":       claimsData.ExpiresAt,
		"email":     claimsData.Email,
		"firstName": claimsData.FirstName,
		"lastName":  claimsData.LastName,
		"role":      string(claimsData.Role),
		"iat":       claimsData.IssuedAt,
		"deviceID":  claimsData.DeviceID,
	}).SignedString([]byte(os.Getenv("JWT_SIGNING_KEY")))
	if err != nil {
		return nil, err
	}
	return &tokenString, nil
}

func DecodeAuthToken(tokenString string) (*jwt.Token, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		return []byte(os.Getenv("JWT_SIGNING_KEY")), nil
	})
	if err != nil {
		if err == jwt.ErrSignatureInvalid {
			err = errors.New("invalid token signature used")
			return nil, err
		}
		logger.Error("error decoding jwt", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		})
		return nil, err
	}
	if !token.Valid {
		err := errors.New("invalid token used")
		logger.Error(err.Error())
		return nil, err
	}
	return token, nil
}

// ParseClaims pulls the identity fields out of a decoded token.
func ParseClaims(token *jwt.Token) (*ClaimsData, error) {
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("unexpected claims payload")
	}
	userID, _ := claims["userID"].(string)
	if userID == "" {
		return nil, errors.New("token is missing its subject")
	}
	email, _ := claims["email"].(string)
	firstName, _ := claims["firstName"].(string)
	lastName, _ := claims["lastName"].(string)
	role, _ := claims["role"].(string)
	deviceID, _ := claims["deviceID"].(string)
	return &ClaimsData{
		UserID:    userID,
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
		Role:      entities.UserRole(role),
		DeviceID:  deviceID,
	}, nil
}
