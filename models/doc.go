// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

Field names follow the JSON the site front end already speaks (urlname,
deadDay, netWorth, ...), so the types double as the wire format for the
apiclient package.

# Request Types

  - LoginRequest: password
  - CreatePersonRequest: person fields (HTML in career/death is sanitized)
  - CreateArticleRequest: title, description, hashtags, photo
  - CandleRequest: candle (+1 or -1)

# Response Types

  - LoginResponse: token
  - CandleResponse: urlname, candles (the new aggregate)
  - PeopleListResponse: people, total
  - ArticleListResponse: articles, total
  - CreatedResponse: id, urlname
  - ErrorResponse: error, message

# Domain Types

  - Person: a public figure with its candle count
  - Article: a news article

# Constants

List kinds:

	KindPeople   = "people"
	KindArticles = "articles"
	KindCandles  = "candles"

Pagination:

	DefaultPageSize = 10
	MaxPageSize     = 100
*/
package models
