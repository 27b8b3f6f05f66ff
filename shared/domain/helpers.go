package domain

import (
	"fmt"
	"time"
)

// for debug
func (p *Post) String() string {
	s := fmt.Sprintf("[id:%s, title:%s, author:%v, created:%s, likes:%d, comments:[", p.Id, p.Title, p.Author.Name, p.CreatedAt.Format(time.StampMilli), p.Likes.Count)
	for i, c := range p.Comments {
		if i > 0 {
			s += ", "
		}
		s += c.String()
	}
	return s + "]]"
}

func (c *Comment) String() string {
	s := fmt.Sprintf("[id:%s, author:%v, text:%s, replies:[", c.Id, c.Author.Name, c.Content)
	for i, r := range c.Replies {
		if i > 0 {
			s += ", "
		}
		s += fmt.Sprintf("[id:%s, author:%v, text:%s]", r.Id, r.Author.Name, r.Content)
	}
	return s + "]]"
}
