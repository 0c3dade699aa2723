package models

// Category - раздел форума, поддерживает вложенность
type Category struct {
	BaseModel
	Name        string  `gorm:"uniqueIndex;not null" json:"name"`
	Slug        string  `gorm:"uniqueIndex;not null" json:"slug"`
	Description string  `json:"description"`
	ParentID    *string `gorm:"index" json:"parent_id,omitempty"`

	Parent   *Category  `gorm:"foreignKey:ParentID" json:"-"`
	Children []Category `gorm:"foreignKey:ParentID" json:"children,omitempty"`
}

type Post struct {
	BaseModelWithDeleted
	AuthorID   string        `gorm:"not null;index" json:"author_id"`
	CategoryID *string       `gorm:"index" json:"category_id,omitempty"`
	Title      string        `gorm:"not null" json:"title"`
	Content    string        `gorm:"type:text;not null" json:"content"`
	Status     ContentStatus `gorm:"type:varchar(20);default:'approved';index" json:"status"`
	ViewCount  int64         `gorm:"default:0" json:"view_count"`
	LikeCount  int64         `gorm:"default:0" json:"like_count"`

	Author   *User     `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Comments []Comment `gorm:"foreignKey:PostID" json:"comments,omitempty"`
}

// Comment - комментарий к посту, поддерживает ответы через ParentID
type Comment struct {
	BaseModelWithDeleted
	PostID   string        `gorm:"not null;index" json:"post_id"`
	AuthorID string        `gorm:"not null;index" json:"author_id"`
	ParentID *string       `gorm:"index" json:"parent_id,omitempty"`
	Content  string        `gorm:"type:text;not null" json:"content"`
	Status   ContentStatus `gorm:"type:varchar(20);default:'approved';index" json:"status"`

	Author  *User     `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Replies []Comment `gorm:"foreignKey:ParentID" json:"replies,omitempty"`
}

// Like - лайк поста, не больше одного на пару пользователь+пост
type Like struct {
	BaseModel
	PostID string `gorm:"not null;uniqueIndex:idx_post_user" json:"post_id"`
	UserID string `gorm:"not null;uniqueIndex:idx_post_user" json:"user_id"`
}
