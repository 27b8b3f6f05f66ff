package api

import (
	"github.com/moyim-dev/moyim/shared/domain"
)

// Mapping from backend records to domain entities. This is the only
// place backend shapes are interpreted.

func MapUser(r UserRecord) domain.UserSummary {
	avatar := r.ProfileImage
	if avatar == "" {
		avatar = domain.DefaultAvatar
	}
	return domain.UserSummary{Id: r.Id, Name: r.Name, AvatarUrl: avatar}
}

func MapReply(r CommentRecord) domain.Reply {
	return domain.Reply{
		Id:        r.Id,
		Content:   r.Content,
		Author:    MapUser(r.Author),
		CreatedAt: r.CreatedAt,
	}
}

func MapComment(r CommentRecord) domain.Comment {
	return domain.Comment{
		Id:        r.Id,
		Content:   r.Content,
		Author:    MapUser(r.Author),
		Replies:   []domain.Reply{},
		CreatedAt: r.CreatedAt,
	}
}

// MapPost groups the flat comment list into top-level comments with
// nested replies, preserving backend order in both lists. Replies whose
// parent is missing from the record are dropped so the snapshot never
// contains an orphan.
func MapPost(r PostRecord) domain.Post {
	comments := make([]domain.Comment, 0, len(r.Comments))
	index := make(map[string]int) // comment id -> position in comments

	for _, cr := range r.Comments {
		if cr.ParentId != "" {
			continue
		}
		index[cr.Id] = len(comments)
		comments = append(comments, MapComment(cr))
	}
	for _, cr := range r.Comments {
		if cr.ParentId == "" {
			continue
		}
		pos, ok := index[cr.ParentId]
		if !ok {
			continue
		}
		comments[pos].Replies = append(comments[pos].Replies, MapReply(cr))
	}

	users := make([]domain.UserSummary, 0, len(r.Likes))
	seen := make(map[string]bool)
	for _, lr := range r.Likes {
		if seen[lr.User.Id] {
			continue
		}
		seen[lr.User.Id] = true
		users = append(users, MapUser(lr.User))
	}

	images := r.Images
	if images == nil {
		images = []string{}
	}

	return domain.Post{
		Id:        r.Id,
		BoardId:   r.BoardId,
		GroupId:   r.GroupId,
		Title:     r.Title,
		Content:   r.Content,
		Author:    MapUser(r.Author),
		Images:    images,
		Likes:     domain.Likes{Count: len(users), Users: users},
		Comments:  comments,
		CreatedAt: r.CreatedAt,
	}
}

func MapPosts(records []PostRecord) []domain.Post {
	posts := make([]domain.Post, 0, len(records))
	for _, r := range records {
		posts = append(posts, MapPost(r))
	}
	return posts
}

func MapNotification(r NotificationRecord) domain.Notification {
	return domain.Notification{
		Id:        r.Id,
		Type:      r.Type,
		UserId:    r.UserId,
		ActorId:   r.ActorId,
		PostId:    r.PostId,
		CommentId: r.CommentId,
		BoardId:   r.BoardId,
		GroupId:   r.GroupId,
		IsRead:    r.IsRead,
		CreatedAt: r.CreatedAt,
	}
}

func MapNotifications(records []NotificationRecord) []domain.Notification {
	notifications := make([]domain.Notification, 0, len(records))
	for _, r := range records {
		notifications = append(notifications, MapNotification(r))
	}
	return notifications
}

func MapBoardGroups(records []BoardGroupRecord) []domain.BoardGroup {
	groups := make([]domain.BoardGroup, 0, len(records))
	for _, gr := range records {
		boards := make([]domain.Board, 0, len(gr.Boards))
		for _, br := range gr.Boards {
			boards = append(boards, domain.Board{
				Id:        br.Id,
				GroupId:   br.GroupId,
				Name:      br.Name,
				CreatedAt: br.CreatedAt,
			})
		}
		groups = append(groups, domain.BoardGroup{Id: gr.Id, Name: gr.Name, Boards: boards})
	}
	return groups
}
