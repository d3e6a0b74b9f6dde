package friends

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"retronova/database"
	"retronova/helpers"
	"retronova/middlewares"
	"retronova/models"
)

type FriendInfo struct {
	FriendshipID uint   `json:"friendship_id"`
	UserID       uint   `json:"user_id"`
	Pseudo       string `json:"pseudo"`
}

// List returns the user's accepted friendships, resolving the friend on
// whichever side of the row the current user is not.
func List(c *fiber.Ctx) error {
	user := middlewares.CurrentUser(c)

	var friendships []models.Friendship
	if err := database.DB.
		Where("(requester_id = ? OR requested_id = ?) AND status = ? AND is_deleted = false",
			user.ID, user.ID, models.FriendshipAccepted).
		Find(&friendships).Error; err != nil {
		return helpers.Fail(c, err)
	}

	result := make([]FriendInfo, 0, len(friendships))
	for _, f := range friendships {
		friendID := f.RequesterID
		if friendID == user.ID {
			friendID = f.RequestedID
		}
		var friend models.User
		if err := database.DB.
			Where("id = ? AND is_deleted = false", friendID).
			First(&friend).Error; err != nil {
			continue
		}
		result = append(result, FriendInfo{
			FriendshipID: f.ID,
			UserID:       friend.ID,
			Pseudo:       friend.Pseudo,
		})
	}
	return helpers.JSONSuccess(c, "friends list", result)
}

type PendingRequest struct {
	FriendshipID uint   `json:"friendship_id"`
	RequesterID  uint   `json:"requester_id"`
	Pseudo       string `json:"pseudo"`
}

// Requests lists friend requests waiting for the current user's answer.
func Requests(c *fiber.Ctx) error {
	user := middlewares.CurrentUser(c)

	var friendships []models.Friendship
	if err := database.DB.
		Where("requested_id = ? AND status = ? AND is_deleted = false",
			user.ID, models.FriendshipPending).
		Order("created_at DESC").
		Find(&friendships).Error; err != nil {
		return helpers.Fail(c, err)
	}

	result := make([]PendingRequest, 0, len(friendships))
	for _, f := range friendships {
		var requester models.User
		if err := database.DB.
			Where("id = ? AND is_deleted = false", f.RequesterID).
			First(&requester).Error; err != nil {
			continue
		}
		result = append(result, PendingRequest{
			FriendshipID: f.ID,
			RequesterID:  requester.ID,
			Pseudo:       requester.Pseudo,
		})
	}
	return helpers.JSONSuccess(c, "pending requests", result)
}

type SendRequestBody struct {
	UserID uint `json:"user_id"`
}

// SendRequest creates a pending friendship toward another user. A rejected
// request may be retried; a pending or accepted one may not.
func SendRequest(c *fiber.Ctx) error {
	user := middlewares.CurrentUser(c)

	var body SendRequestBody
	if err := c.BodyParser(&body); err != nil {
		return helpers.JSONError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if body.UserID == user.ID {
		return helpers.JSONError(c, fiber.StatusBadRequest, "you cannot add yourself as a friend")
	}

	var target models.User
	if err := database.DB.
		Where("id = ? AND is_deleted = false", body.UserID).
		First(&target).Error; err != nil {
		return helpers.JSONError(c, fiber.StatusNotFound, "user not found")
	}

	var existing models.Friendship
	err := database.DB.
		Where("((requester_id = ? AND requested_id = ?) OR (requester_id = ? AND requested_id = ?)) AND is_deleted = false",
			user.ID, body.UserID, body.UserID, user.ID).
		First(&existing).Error
	if err == nil {
		switch existing.Status {
		case models.FriendshipAccepted:
			return helpers.JSONError(c, fiber.StatusBadRequest, "you are already friends with this user")
		case models.FriendshipPending:
			return helpers.JSONError(c, fiber.StatusBadRequest, "a friend request is already pending")
		case models.FriendshipRejected:
			existing.RequesterID = user.ID
			existing.RequestedID = body.UserID
			existing.Status = models.FriendshipPending
			if err := database.DB.Save(&existing).Error; err != nil {
				return helpers.Fail(c, err)
			}
			return helpers.JSONSuccess(c, "friend request sent", existing)
		}
	}

	friendship := models.Friendship{
		RequesterID: user.ID,
		RequestedID: body.UserID,
		Status:      models.FriendshipPending,
	}
	if err := database.DB.Create(&friendship).Error; err != nil {
		return helpers.Fail(c, err)
	}
	return helpers.JSONSuccess(c, "friend request sent", friendship)
}

// Accept answers a pending request addressed to the current user.
func Accept(c *fiber.Ctx) error {
	return answerRequest(c, models.FriendshipAccepted, "friend request accepted")
}

// Reject declines a pending request addressed to the current user.
func Reject(c *fiber.Ctx) error {
	return answerRequest(c, models.FriendshipRejected, "friend request rejected")
}

func answerRequest(c *fiber.Ctx, status models.FriendshipStatus, message string) error {
	user := middlewares.CurrentUser(c)
	friendshipID, err := c.ParamsInt("id")
	if err != nil {
		return helpers.JSONError(c, fiber.StatusBadRequest, "invalid friendship id")
	}

	var friendship models.Friendship
	if err := database.DB.
		Where("id = ? AND requested_id = ? AND is_deleted = false", friendshipID, user.ID).
		First(&friendship).Error; err != nil {
		return helpers.JSONError(c, fiber.StatusNotFound, "friend request not found")
	}
	if friendship.Status != models.FriendshipPending {
		return helpers.JSONError(c, fiber.StatusBadRequest, "this request has already been answered")
	}

	friendship.Status = status
	if err := database.DB.Save(&friendship).Error; err != nil {
		return helpers.Fail(c, err)
	}
	return helpers.JSONSuccess(c, message, friendship)
}

// Remove soft-deletes the accepted friendship with the given user, from
// either side.
func Remove(c *fiber.Ctx) error {
	user := middlewares.CurrentUser(c)
	friendID, err := c.ParamsInt("user_id")
	if err != nil {
		return helpers.JSONError(c, fiber.StatusBadRequest, "invalid user id")
	}

	var friendship models.Friendship
	if err := database.DB.
		Where("((requester_id = ? AND requested_id = ?) OR (requester_id = ? AND requested_id = ?)) AND status = ? AND is_deleted = false",
			user.ID, friendID, friendID, user.ID, models.FriendshipAccepted).
		First(&friendship).Error; err != nil {
		return helpers.JSONError(c, fiber.StatusNotFound, "friendship not found")
	}

	friendship.SoftDelete(time.Now().UTC())
	if err := database.DB.Save(&friendship).Error; err != nil {
		return helpers.Fail(c, err)
	}
	return helpers.JSONSuccess(c, "friend removed", nil)
}
