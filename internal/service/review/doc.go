// Package review runs review sessions. Opening a deck orders its cards by
// weight and keeps the order in memory, so the pages can address cards by
// position while ratings are written through to the database.
package review
