package redisrepo

import "fmt"

const (
	SESSION_KEY       = "session:%s"       // <profile>
	PRESIGNED_GET_KEY = "presigned-get:%d" // <reportID>
)

func SessionKey(profile string) string {
	return fmt.Sprintf(SESSION_KEY, profile)
}

func PresignedGetKey(reportID int64) string {
	return fmt.Sprintf(PRESIGNED_GET_KEY, reportID)
}
