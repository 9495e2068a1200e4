package utils

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/gin-gonic/gin"
)

var (
	emailRegex  = regexp.MustCompile(`^[a-zA-Z0-9!#$%&'*+/=?^_` + "`" + `{|}~-]+(?:\.[a-zA-Z0-9!#$%&'*+/=?^_` + "`" + `{|}~-]+)*@(?:[a-zA-Z0-9](?:[a-zA-Z0-9-]*[a-zA-Z0-9])?\.)+[a-zA-Z0-9](?:[a-zA-Z0-9-]*[a-zA-Z0-9])?$`)
	digitsRegex = regexp.MustCompile(`^[0-9]+$`)
)

func ValidateEmail(email string) (bool, error) {
	if !emailRegex.MatchString(email) {
		return false, fmt.Errorf("error: email format incorrect")
	}
	return true, nil
}

// IsDigits reports whether s is a non-empty run of ASCII digits, the shape of
// every serial value.
func IsDigits(s string) bool {
	return digitsRegex.MatchString(s)
}

func GetQueryParamAsInt(c *gin.Context, paramName string, defaultValue int) (int, error) {
	paramValue := c.Query(paramName)
	if paramValue == "" {
		return defaultValue, nil
	}

	intValue, err := strconv.Atoi(paramValue)
	if err != nil || intValue <= 0 {
		return 0, fmt.Errorf("invalid %s", paramName)
	}

	return intValue, nil
}

// GetQueryParamAsBool returns nil when the parameter is absent.
func GetQueryParamAsBool(c *gin.Context, paramName string) (*bool, error) {
	paramValue := c.Query(paramName)
	if paramValue == "" {
		return nil, nil
	}

	b, err := strconv.ParseBool(paramValue)
	if err != nil {
		return nil, fmt.Errorf("invalid %s", paramName)
	}
	return &b, nil
}
