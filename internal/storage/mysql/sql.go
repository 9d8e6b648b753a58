package mysql

// Columns named like reserved words (`condition`) stay quoted everywhere.

// -----------------------------------------------------------------------------
// STATS
// -----------------------------------------------------------------------------

const countPropertiesSQL = `SELECT COUNT(*) FROM properties`

const soldRevenueSQL = `
SELECT COALESCE(SUM(price), 0), COUNT(*)
FROM properties
WHERE status = 'Sold'`

const countSellSQL = `SELECT COUNT(*) FROM sell_submissions`

const countBlogsSQL = `SELECT COUNT(*) FROM blogs`

const sumBlogViewsSQL = `SELECT COALESCE(SUM(view_count), 0) FROM blogs`

const countUsersSQL = `SELECT COUNT(*) FROM users`

const countCommentsSQL = `SELECT COUNT(*) FROM comments`

const countReviewsSQL = `SELECT COUNT(*) FROM reviews`

const countSubscribersSQL = `
SELECT COUNT(*) FROM newsletter_subscriptions WHERE unsubscribed_at IS NULL`

const propertiesByTypeSQL = `
SELECT type, COUNT(*), COALESCE(AVG(price), 0)
FROM properties
GROUP BY type
ORDER BY COUNT(*) DESC, type`

const propertiesByCitySQL = `
SELECT city, COUNT(*), CAST(COALESCE(SUM(status = 'Sold'), 0) AS SIGNED)
FROM properties
GROUP BY city
ORDER BY COUNT(*) DESC, city
LIMIT ?`

const blogsByCategorySQL = `
SELECT category, COUNT(*), CAST(COALESCE(SUM(view_count), 0) AS SIGNED)
FROM blogs
WHERE status = 'published'
GROUP BY category
ORDER BY 3 DESC, category`

const blogStatusBreakdownSQL = `SELECT status, COUNT(*) FROM blogs GROUP BY status`

const topBlogsSQL = `
SELECT id, title, view_count, category, published_at
FROM blogs
WHERE status = 'published'
ORDER BY view_count DESC, id
LIMIT ?`

const dailyRegistrationsSQL = `
SELECT DATE_FORMAT(created_at, '%Y-%m-%d') AS day, COUNT(*)
FROM users
WHERE created_at >= ?
GROUP BY day
ORDER BY day`

// Only commenters that still have a user row count as active.
const activeUsersSQL = `
SELECT COUNT(DISTINCT c.user_id)
FROM comments c
JOIN users u ON u.id = c.user_id
WHERE c.created_at >= ?`

const commentStatusBreakdownSQL = `SELECT status, COUNT(*) FROM comments GROUP BY status`

const reviewStatusBreakdownSQL = `SELECT status, COUNT(*) FROM reviews GROUP BY status`

const commentBriefSelect = `
SELECT c.id, c.blog_id, c.content, COALESCE(u.username, ''), c.status, c.created_at
FROM comments c
LEFT JOIN users u ON u.id = c.user_id`

const pendingCommentsSQL = commentBriefSelect + `
WHERE c.status = 'pending'
ORDER BY c.created_at DESC, c.id
LIMIT ?`

const recentCommentsSQL = commentBriefSelect + `
ORDER BY c.created_at DESC, c.id
LIMIT ?`

const reviewBriefSelect = `
SELECT id, property_id, content, name, status, created_at
FROM reviews`

const pendingReviewsSQL = reviewBriefSelect + `
WHERE status = 'pending'
ORDER BY created_at DESC, id
LIMIT ?`

const recentReviewsSQL = reviewBriefSelect + `
ORDER BY created_at DESC, id
LIMIT ?`

const approvedRatingAveragesSQL = `
SELECT
  COALESCE(AVG(location_rating), 0),
  COALESCE(AVG(condition_rating), 0),
  COALESCE(AVG(value_rating), 0),
  COALESCE(AVG(amenities_rating), 0)
FROM reviews
WHERE status = 'approved'`

const revenueByMonthSQL = `
SELECT DATE_FORMAT(sold_at, '%Y-%m') AS month, COALESCE(SUM(price), 0), COUNT(*)
FROM properties
WHERE status = 'Sold' AND sold_at >= ?
GROUP BY month
ORDER BY month`

const revenueByCitySQL = `
SELECT city, COALESCE(SUM(price), 0), COUNT(*), COALESCE(AVG(price), 0)
FROM properties
WHERE status = 'Sold'
GROUP BY city
ORDER BY SUM(price) DESC, city
LIMIT ?`

// Inner join: properties without an approved review are not ranked.
const topReviewedPropertiesSQL = `
SELECT p.id, p.title, p.city, p.price, COUNT(r.id) AS review_count
FROM properties p
JOIN reviews r ON r.property_id = p.id AND r.status = 'approved'
GROUP BY p.id, p.title, p.city, p.price
ORDER BY review_count DESC, p.id
LIMIT ?`

const topSellingCitiesSQL = `
SELECT city, COUNT(*), COALESCE(SUM(price), 0)
FROM properties
WHERE status = 'Sold'
GROUP BY city
ORDER BY COUNT(*) DESC, city
LIMIT ?`

const recentPropertiesSQL = `
SELECT id, title, city, price, created_at
FROM properties
ORDER BY created_at DESC, id
LIMIT ?`

const recentBlogsSQL = `
SELECT id, title, view_count, category, published_at
FROM blogs
WHERE status = 'published'
ORDER BY published_at DESC, id
LIMIT ?`

// -----------------------------------------------------------------------------
// LISTINGS
// -----------------------------------------------------------------------------

const propertyColumns = "p.id, p.title, p.description, p.price, p.address, p.city, p.state, p.zip_code, " +
	"p.type, p.status, p.bedrooms, p.bathrooms, p.sqft, p.year_built, p.`condition`, " +
	"p.features, p.images, p.sold_at, p.created_at, p.updated_at"

const countListingsSQL = `SELECT COUNT(*) FROM properties p`

// A review missing any of the four ratings has a NULL mean and is skipped by
// AVG; it still counts towards review_count.
const listListingsSelect = `
SELECT ` + propertyColumns + `,
  AVG((r.location_rating + r.condition_rating + r.value_rating + r.amenities_rating) / 4),
  COUNT(r.id)
FROM properties p
LEFT JOIN reviews r ON r.property_id = p.id`

const listListingsTail = `
GROUP BY p.id
ORDER BY p.created_at DESC, p.id
LIMIT ? OFFSET ?`

// -----------------------------------------------------------------------------
// PROPERTIES & REVIEWS
// -----------------------------------------------------------------------------

const insertPropertySQL = "INSERT INTO properties\n" +
	"  (id, title, description, price, address, city, state, zip_code, type, status,\n" +
	"   bedrooms, bathrooms, sqft, year_built, `condition`, features, images, sold_at, created_at, updated_at)\n" +
	"VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"

const getPropertySQL = `SELECT ` + propertyColumns + ` FROM properties p WHERE p.id = ?`

const updatePropertyStatusSQL = `
UPDATE properties SET status = ?, sold_at = ?, updated_at = CURRENT_TIMESTAMP(3) WHERE id = ?`

const deletePropertySQL = `DELETE FROM properties WHERE id = ?`

const updatePropertySQL = "UPDATE properties SET\n" +
	"  title = ?, description = ?, price = ?, address = ?, city = ?, state = ?, zip_code = ?,\n" +
	"  type = ?, status = ?, bedrooms = ?, bathrooms = ?, sqft = ?, year_built = ?, `condition` = ?,\n" +
	"  features = ?, images = ?, sold_at = ?, updated_at = ?\n" +
	"WHERE id = ?"

// -----------------------------------------------------------------------------
// CATALOG
// -----------------------------------------------------------------------------

const listPropertiesSelect = `SELECT ` + propertyColumns + ` FROM properties p`

const listPropertiesTail = `
ORDER BY p.created_at DESC, p.id
LIMIT ? OFFSET ?`

const searchPropertiesSQL = `SELECT ` + propertyColumns + `
FROM properties p
WHERE p.title LIKE ? OR p.description LIKE ? OR p.address LIKE ? OR p.city LIKE ? OR p.zip_code LIKE ?
ORDER BY p.created_at DESC, p.id
LIMIT ?`

const relatedPropertiesSQL = `SELECT ` + propertyColumns + `
FROM properties p
WHERE p.id <> ? AND (p.city = ? OR p.type = ? OR p.zip_code = ?)
ORDER BY p.created_at DESC, p.id
LIMIT ?`

const approvedReviewsSQL = `
SELECT r.id, r.property_id, r.user_id, r.name, r.content,
  r.location_rating, r.condition_rating, r.value_rating, r.amenities_rating,
  r.status, r.created_at, r.updated_at, COALESCE(u.username, '')
FROM reviews r
LEFT JOIN users u ON u.id = r.user_id
WHERE r.property_id = ? AND r.status = 'approved'
ORDER BY r.created_at DESC, r.id`

const insertReviewSQL = `
INSERT INTO reviews
  (id, property_id, user_id, name, content,
   location_rating, condition_rating, value_rating, amenities_rating, status, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// -----------------------------------------------------------------------------
// MODERATION
// -----------------------------------------------------------------------------

// The status guard makes the transition a compare-and-set.
const setCommentStatusSQL = `
UPDATE comments SET status = ?, updated_at = CURRENT_TIMESTAMP(3) WHERE id = ? AND status = ?`

const commentStatusSQL = `SELECT status FROM comments WHERE id = ?`

const setReviewStatusSQL = `
UPDATE reviews SET status = ?, updated_at = CURRENT_TIMESTAMP(3) WHERE id = ? AND status = ?`

const reviewStatusSQL = `SELECT status FROM reviews WHERE id = ?`

const listCommentsSelect = `
SELECT c.id, c.blog_id, c.user_id, COALESCE(u.username, ''), c.content, c.status, c.created_at, c.updated_at,
  COALESCE(b.title, '')
FROM comments c
LEFT JOIN users u ON u.id = c.user_id
LEFT JOIN blogs b ON b.id = c.blog_id`

const countCommentsListSQL = `SELECT COUNT(*) FROM comments c`

const listReviewsSelect = `
SELECT r.id, r.property_id, r.user_id, r.name, r.content,
  r.location_rating, r.condition_rating, r.value_rating, r.amenities_rating,
  r.status, r.created_at, r.updated_at,
  COALESCE(p.title, ''), COALESCE(p.city, ''), COALESCE(u.username, ''), COALESCE(u.email, '')
FROM reviews r
LEFT JOIN properties p ON p.id = r.property_id
LEFT JOIN users u ON u.id = r.user_id`

const countReviewsListSQL = `SELECT COUNT(*) FROM reviews r`

// -----------------------------------------------------------------------------
// ACCOUNTS
// -----------------------------------------------------------------------------

const userColumns = `id, username, email, phone_number, created_at, updated_at`

const getUserSQL = `SELECT ` + userColumns + ` FROM users WHERE id = ?`

const userCommentsSQL = `
SELECT c.id, c.blog_id, c.user_id, COALESCE(u.username, ''), c.content, c.status, c.created_at, c.updated_at
FROM comments c
LEFT JOIN users u ON u.id = c.user_id
WHERE c.user_id = ?
ORDER BY c.created_at DESC`

const reviewColumns = `id, property_id, user_id, name, content,
  location_rating, condition_rating, value_rating, amenities_rating, status, created_at, updated_at`

const userReviewsSQL = `SELECT ` + reviewColumns + ` FROM reviews WHERE user_id = ? ORDER BY created_at DESC`

const newsletterByEmailSQL = `
SELECT id, email, subscribed_at, unsubscribed_at FROM newsletter_subscriptions WHERE email = ?`

const adminColumns = `id, username, email, position, role, avatar, bio, created_at, updated_at`

const listAdminsSQL = `SELECT ` + adminColumns + ` FROM admins ORDER BY created_at DESC, id LIMIT ? OFFSET ?`

const countAdminsSQL = `SELECT COUNT(*) FROM admins`

const getAdminSQL = `SELECT ` + adminColumns + ` FROM admins WHERE id = ?`

const adminConflictSQL = `
SELECT email, username FROM admins
WHERE (email = ? OR username = ?) AND id <> ?
LIMIT 1`

const insertAdminSQL = `
INSERT INTO admins (id, username, email, position, role, avatar, bio, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

const deleteAdminSQL = `DELETE FROM admins WHERE id = ?`

// -----------------------------------------------------------------------------
// SELL
// -----------------------------------------------------------------------------

const insertSubmissionSQL = "INSERT INTO sell_submissions\n" +
	"  (id, full_name, phone_number, email_address, property_type, address, city, state, zip_code,\n" +
	"   bedrooms, bathrooms, sqft, asking_price, `condition`, images, additional_notes, offer_status, created_at, updated_at)\n" +
	"VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"

const listSubmissionsSelect = "SELECT id, full_name, phone_number, email_address, property_type, address, city, state, zip_code,\n" +
	"  bedrooms, bathrooms, sqft, asking_price, `condition`, images, additional_notes, offer_status, created_at, updated_at\n" +
	"FROM sell_submissions"

const updateOfferStatusSQL = `
UPDATE sell_submissions SET offer_status = ?, updated_at = CURRENT_TIMESTAMP(3) WHERE id = ?`
