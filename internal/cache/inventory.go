package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix      = "user:%d"
	PhotoKeyPrefix     = "photo:%d"
	PhotoListKeyPrefix = "photos:recent"
)

const (
	UserTTL      = 5 * time.Minute
	PhotoTTL     = 10 * time.Minute
	PhotoListTTL = 1 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func PhotoKey(photoID uint) string {
	return fmt.Sprintf(PhotoKeyPrefix, photoID)
}

func PhotoListKey() string {
	return PhotoListKeyPrefix
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

func InvalidatePhoto(ctx context.Context, photoID uint) {
	Invalidate(ctx, PhotoKey(photoID))
	Invalidate(ctx, PhotoListKey())
}

func InvalidatePhotoList(ctx context.Context) {
	Invalidate(ctx, PhotoListKey())
}
