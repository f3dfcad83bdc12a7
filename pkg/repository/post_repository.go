package repository

import (
	"database/sql"

	"catedra/pkg/models"
)

type PostRepository interface {
	Create(title, content, authorID string) (models.Post, error)
	GetByID(id string) (models.Post, error)
	List() ([]models.Post, error)
	ListByAuthor(authorID string) ([]models.Post, error)
	Update(id, title, content string) (models.Post, error)
	Delete(id string) error
}

type postRepository struct {
	db *sql.DB
}

func NewPostRepository(db *sql.DB) PostRepository {
	return &postRepository{db: db}
}

// Every read joins the author so posts come back populated with the
// author's name, email and role. The join is LEFT so posts whose author
// was deleted still come back, with a null author.
const postSelect = `
	SELECT p.id, p.title, p.content, p.author_id, p.created_at, p.updated_at,
	       u.id, u.name, u.email, u.role
	FROM posts p
	LEFT JOIN users u ON u.id = p.author_id`

func (r *postRepository) Create(title, content, authorID string) (models.Post, error) {
	var id string
	err := r.db.QueryRow(
		`INSERT INTO posts (title, content, author_id) VALUES ($1, $2, $3) RETURNING id`,
		title, content, authorID,
	).Scan(&id)
	if err != nil {
		return models.Post{}, err
	}
	return r.GetByID(id)
}

func (r *postRepository) GetByID(id string) (models.Post, error) {
	row := r.db.QueryRow(postSelect+` WHERE p.id::text = $1`, id)
	return scanPost(row)
}

func (r *postRepository) List() ([]models.Post, error) {
	rows, err := r.db.Query(postSelect + ` ORDER BY p.created_at DESC, p.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPosts(rows)
}

func (r *postRepository) ListByAuthor(authorID string) ([]models.Post, error) {
	rows, err := r.db.Query(
		postSelect+` WHERE p.author_id::text = $1 ORDER BY p.created_at DESC, p.id`, authorID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPosts(rows)
}

func (r *postRepository) Update(id, title, content string) (models.Post, error) {
	_, err := r.db.Exec(
		`UPDATE posts SET title = $1, content = $2, updated_at = NOW() WHERE id::text = $3`,
		title, content, id,
	)
	if err != nil {
		return models.Post{}, err
	}
	return r.GetByID(id)
}

func (r *postRepository) Delete(id string) error {
	_, err := r.db.Exec(`DELETE FROM posts WHERE id::text = $1`, id)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (models.Post, error) {
	var p models.Post
	var authorID, authorName, authorEmail, authorRole sql.NullString
	err := row.Scan(
		&p.ID, &p.Title, &p.Content, &p.AuthorID, &p.CreatedAt, &p.UpdatedAt,
		&authorID, &authorName, &authorEmail, &authorRole,
	)
	if err != nil {
		return models.Post{}, err
	}
	if authorID.Valid {
		p.Author = &models.Author{
			ID:    authorID.String,
			Name:  authorName.String,
			Email: authorEmail.String,
			Role:  authorRole.String,
		}
	}
	return p, nil
}

func collectPosts(rows *sql.Rows) ([]models.Post, error) {
	posts := []models.Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}
