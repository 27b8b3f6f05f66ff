package domain

import "time"

type Board struct {
	Id        BoardId   `json:"id"`
	GroupId   GroupId   `json:"group_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type BoardGroup struct {
	Id     GroupId `json:"id"`
	Name   string  `json:"name"`
	Boards []Board `json:"boards"`
}
