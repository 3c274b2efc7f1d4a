package cli

import (
	"context"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/wikied/internal/client/models"
	"github.com/dmitrijs2005/wikied/internal/client/richtext"
	"github.com/dmitrijs2005/wikied/internal/client/services"
)

const dateLayout = "2006.01.02"

// parseArticleQuery reads "[page] [recent|like] [keyword...]".
func parseArticleQuery(args []string) models.ArticleQuery {
	q := models.ArticleQuery{Page: 1, PageSize: services.DefaultPageSize}
	if len(args) > 0 {
		if n, err := strconv.Atoi(args[0]); err == nil && n > 0 {
			q.Page = n
			args = args[1:]
		}
	}
	if len(args) > 0 {
		switch o := models.ArticleOrder(args[0]); o {
		case models.OrderRecent, models.OrderLike:
			q.OrderBy = o
			args = args[1:]
		}
	}
	q.Keyword = strings.Join(args, " ")
	return q
}

func (a *App) Articles(ctx context.Context, args []string) error {
	q := parseArticleQuery(args)
	l, err := a.board.Articles(ctx, q)
	if err != nil {
		return err
	}
	if len(l.List) == 0 {
		a.println("게시글이 없어요.")
		return nil
	}
	for _, art := range l.List {
		a.printf("#%-4d %s  %s  %s  ♥ %d\n", art.ID, art.Title, art.Writer.Name, art.CreatedAt.Format(dateLayout), art.LikeCount)
	}
	a.printf("page %d/%d\n", q.Page, totalPages(l.TotalCount, q.PageSize))
	return nil
}

func (a *App) Article(ctx context.Context, args []string) error {
	id, err := intArg(args, 0, "article <id>")
	if err != nil {
		return err
	}
	art, err := a.board.Article(ctx, id)
	if err != nil {
		return err
	}

	a.println(art.Title)
	a.printf("%s  %s  ♥ %d%s\n", art.Writer.Name, art.CreatedAt.Format(dateLayout), art.LikeCount, likedMark(art.IsLiked))
	if art.Image != "" {
		a.printf("[이미지: %s]\n", art.Image)
	}
	a.println()
	if richtext.IsEmpty(art.Content) {
		a.println("(내용 없음)")
		return nil
	}
	a.println(richtext.PlainText(art.Content))
	return nil
}

func likedMark(liked bool) string {
	if liked {
		return " (좋아요 누름)"
	}
	return ""
}

// readArticle prompts for the title, the Markdown body and an optional
// image URL.
func (a *App) readArticle() (title, body, image string, err error) {
	if title, err = GetSimpleText(a.reader, "제목", a.out); err != nil {
		return
	}
	if body, err = GetMultiline(a.reader, "본문 (Markdown)", a.out); err != nil {
		return
	}
	image, err = GetSimpleText(a.reader, "이미지 URL (없으면 Enter)", a.out)
	return
}

func (a *App) Write(ctx context.Context, _ []string) error {
	title, body, image, err := a.readArticle()
	if err != nil {
		return err
	}
	art, err := a.board.Write(ctx, title, body, image)
	if err != nil {
		return err
	}
	a.printf("게시글이 등록되었습니다: #%d\n", art.ID)
	return nil
}

func (a *App) EditArticle(ctx context.Context, args []string) error {
	id, err := intArg(args, 0, "edit-article <id>")
	if err != nil {
		return err
	}
	title, body, image, err := a.readArticle()
	if err != nil {
		return err
	}
	if _, err := a.board.Edit(ctx, id, title, body, image); err != nil {
		return err
	}
	a.println("게시글이 수정되었습니다.")
	return nil
}

func (a *App) DeleteArticle(ctx context.Context, args []string) error {
	id, err := intArg(args, 0, "delete-article <id>")
	if err != nil {
		return err
	}
	if err := a.board.Delete(ctx, id); err != nil {
		return err
	}
	a.println("게시글이 삭제되었습니다.")
	return nil
}

func (a *App) Like(ctx context.Context, args []string) error {
	id, err := intArg(args, 0, "like <id>")
	if err != nil {
		return err
	}
	art, err := a.board.Like(ctx, id)
	if err != nil {
		return err
	}
	a.printf("♥ %d%s\n", art.LikeCount, likedMark(art.IsLiked))
	return nil
}

func (a *App) Unlike(ctx context.Context, args []string) error {
	id, err := intArg(args, 0, "unlike <id>")
	if err != nil {
		return err
	}
	art, err := a.board.Unlike(ctx, id)
	if err != nil {
		return err
	}
	a.printf("♥ %d%s\n", art.LikeCount, likedMark(art.IsLiked))
	return nil
}

// Comments prints one page of comments. The cursor for the next page is
// printed as a ready-to-run command.
func (a *App) Comments(ctx context.Context, args []string) error {
	const usage = "comments <id> [cursor]"
	id, err := intArg(args, 0, usage)
	if err != nil {
		return err
	}
	var cursor *int
	if len(args) > 1 {
		c, err := intArg(args, 1, usage)
		if err != nil {
			return err
		}
		cursor = &c
	}

	page, err := a.board.Comments(ctx, id, cursor)
	if err != nil {
		return err
	}
	if len(page.List) == 0 {
		a.println("댓글이 없어요.")
		return nil
	}
	for _, c := range page.List {
		a.printf("#%-4d %s  %s\n      %s\n", c.ID, c.Writer.Name, c.CreatedAt.Format(dateLayout), c.Content)
	}
	if page.NextCursor != nil {
		a.printf("more: comments %d %d\n", id, *page.NextCursor)
	}
	return nil
}

func (a *App) Comment(ctx context.Context, args []string) error {
	id, err := intArg(args, 0, "comment <id>")
	if err != nil {
		return err
	}
	content, err := GetMultiline(a.reader, "댓글", a.out)
	if err != nil {
		return err
	}
	c, err := a.board.Comment(ctx, id, content)
	if err != nil {
		return err
	}
	a.printf("댓글이 등록되었습니다: #%d\n", c.ID)
	return nil
}

func (a *App) EditComment(ctx context.Context, args []string) error {
	id, err := intArg(args, 0, "edit-comment <id>")
	if err != nil {
		return err
	}
	content, err := GetMultiline(a.reader, "댓글", a.out)
	if err != nil {
		return err
	}
	if _, err := a.board.EditComment(ctx, id, content); err != nil {
		return err
	}
	a.println("댓글이 수정되었습니다.")
	return nil
}

func (a *App) DeleteComment(ctx context.Context, args []string) error {
	id, err := intArg(args, 0, "delete-comment <id>")
	if err != nil {
		return err
	}
	if err := a.board.DeleteComment(ctx, id); err != nil {
		return err
	}
	a.println("댓글이 삭제되었습니다.")
	return nil
}
