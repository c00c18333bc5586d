package utils

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/go-resty/resty/v2"

	"madrasa/config"
)

// GenerateOTP generates a 6-digit OTP
func GenerateOTP() string {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	otp := ""
	for i := 0; i < 6; i++ {
		otp += fmt.Sprintf("%d", rng.Intn(10))
	}
	return otp
}

// SendOTPToMobile sends the OTP through the SMS gateway
func SendOTPToMobile(mobile, otp string) error {
	client := resty.New().SetTimeout(10 * time.Second)

	resp, err := client.R().
		SetQueryParams(map[string]string{
			"authorization":    config.AppConfig.LocalTextApi,
			"route":            "dlt",
			"sender_id":        "MDRASA",
			"variables_values": fmt.Sprintf("%s|10", otp), // OTP and validity in minutes
			"flash":            "0",
			"numbers":          mobile,
		}).
		Get(config.AppConfig.LocalTextApiUrl)

	if err != nil {
		log.Printf("Error while sending OTP: %v", err)
		return err
	}

	if resp.StatusCode() != 200 {
		log.Printf("Failed to send OTP, response code: %d", resp.StatusCode())
		return fmt.Errorf("failed to send OTP, code: %d", resp.StatusCode())
	}

	return nil
}
