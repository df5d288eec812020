// Deokhugam - Social Reading Platform Ranking Engine
// Copyright 2026 SB3 Deokhugam Team 3
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/SB3-deokhugam-3/SB03-Deokhugam-Team3-sub000

package models

import "time"

// Storage rows for the platform entities the ranking engine aggregates over.
// CRUD surfaces for these live elsewhere; this service only reads them
// (plus seed helpers for fixtures) and treats soft-deleted rows as absent.

// User is a platform account.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Nickname  string    `json:"nickname"`
	IsDeleted bool      `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
}

// Book is a catalog entry. Rating and ReviewCount are lifetime aggregates
// maintained by the review CRUD surface and read here for snapshot rows and
// the catalog listing.
type Book struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	Publisher     string    `json:"publisher"`
	PublishedDate time.Time `json:"publishedDate"`
	ISBN          string    `json:"isbn"`
	Rating        float64   `json:"rating"`
	ReviewCount   int64     `json:"reviewCount"`
	IsDeleted     bool      `json:"-"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Review is a user's review of a book with a 1..5 rating.
type Review struct {
	ID        string    `json:"id"`
	BookID    string    `json:"bookId"`
	UserID    string    `json:"userId"`
	Content   string    `json:"content"`
	Rating    int       `json:"rating"`
	IsDeleted bool      `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
}

// Comment is a user's comment on a review.
type Comment struct {
	ID        string    `json:"id"`
	ReviewID  string    `json:"reviewId"`
	UserID    string    `json:"userId"`
	IsDeleted bool      `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
}

// ReviewLike records that a user liked a review. Unique per (review, user).
type ReviewLike struct {
	ReviewID  string    `json:"reviewId"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}
