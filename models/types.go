package models

import "time"

// List kinds served by the API
const (
	KindPeople   = "people"
	KindArticles = "articles"
	KindCandles  = "candles"
)

// Pagination defaults
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Request types

type LoginRequest struct {
	Password string `json:"password"`
}

type CreatePersonRequest struct {
	URLName    string     `json:"urlname"`
	Fullname   string     `json:"fullname"`
	Age        int        `json:"age"`
	Birthday   *time.Time `json:"birthday,omitempty"`
	Birthplace string     `json:"birthplace"`
	DeadDay    *time.Time `json:"deadDay,omitempty"`
	DeadPlace  string     `json:"deadPlace"`
	Career     string     `json:"career"`
	Death      string     `json:"death"`
	Reason     string     `json:"reason"`
	NetWorth   string     `json:"netWorth"`
	Photo      string     `json:"photo"`
	Facebook   string     `json:"facebook"`
	Twitter    string     `json:"twitter"`
	Instagram  string     `json:"instagram"`
	Youtube    string     `json:"youtube"`
}

type CreateArticleRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Hashtags    string `json:"hashtags"`
	Photo       string `json:"photo"`
}

// +1 lights a candle, -1 blows it out
type CandleRequest struct {
	Candle int `json:"candle"`
}

// Response types

type LoginResponse struct {
	Token string `json:"token"`
}

type CandleResponse struct {
	URLName string `json:"urlname"`
	Candles int    `json:"candles"`
}

type PeopleListResponse struct {
	People []Person `json:"people"`
	Total  int      `json:"total"`
}

type ArticleListResponse struct {
	Articles []Article `json:"articles"`
	Total    int       `json:"total"`
}

type CreatedResponse struct {
	ID      string `json:"id"`
	URLName string `json:"urlname,omitempty"`
}

// Domain types

type Person struct {
	ID         string     `json:"id"`
	URLName    string     `json:"urlname"`
	Fullname   string     `json:"fullname"`
	Age        int        `json:"age"`
	Birthday   *time.Time `json:"birthday,omitempty"`
	Birthplace string     `json:"birthplace"`
	DeadDay    *time.Time `json:"deadDay,omitempty"`
	DeadPlace  string     `json:"deadPlace"`
	Career     string     `json:"career"`
	Death      string     `json:"death"`
	Reason     string     `json:"reason"`
	NetWorth   string     `json:"netWorth"`
	Photo      string     `json:"photo"`
	Facebook   string     `json:"facebook"`
	Twitter    string     `json:"twitter"`
	Instagram  string     `json:"instagram"`
	Youtube    string     `json:"youtube"`
	Candles    int        `json:"candles"`
	CreatedAt  time.Time  `json:"createdAt"`
}

type Article struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Hashtags    string    `json:"hashtags"`
	Photo       string    `json:"photo"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Entity is one row of a browsed list as the client sees it. Ref is the
// urlname for people and the id for articles.
type Entity struct {
	Ref     string `json:"ref"`
	Title   string `json:"title"`
	Candles int    `json:"candles"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
