package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"github.com/h2non/filetype"

	"github.com/rizanep/kamcom-bids/internal/models"
	"github.com/rizanep/kamcom-bids/internal/pkg/apperror"
)

// UploadAttachment загружает файл к ставке multipart-запросом.
// Content-Type запроса задаёт multipart-writer, а не JSON-заголовки клиента.
func (c *Client) UploadAttachment(ctx context.Context, bidID models.ID, filename string, r io.Reader) (*models.Attachment, error) {
	var attachment models.Attachment
	err := c.doMultipart(ctx, "bids/"+bidID.String()+"/attachments", "file", filename, r, nil, &attachment)
	if err != nil {
		return nil, err
	}
	return &attachment, nil
}

// DeleteAttachment удаляет вложение.
func (c *Client) DeleteAttachment(ctx context.Context, bidID, attachmentID models.ID) error {
	return c.do(ctx, http.MethodDelete, "bids/"+bidID.String()+"/attachments/"+attachmentID.String(), nil, nil, nil)
}

// DownloadAttachment скачивает вложение в w.
func (c *Client) DownloadAttachment(ctx context.Context, bidID, attachmentID models.ID, w io.Writer) error {
	return c.download(ctx, "bids/"+bidID.String()+"/attachments/"+attachmentID.String()+"/download", nil, w)
}

// doMultipart выполняет multipart-загрузку с определением MIME-типа
// по сигнатуре файла и ограничением размера.
func (c *Client) doMultipart(ctx context.Context, path, field, filename string, r io.Reader, extra map[string]string, out any) error {
	token, err := c.tokens.Token()
	if err != nil {
		return err
	}

	// Сигнатуры filetype укладываются в первые 261 байт.
	head := make([]byte, 261)
	n, err := io.ReadFull(r, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return apperror.Wrap(err, apperror.ErrCodeValidation, "не удалось прочитать файл")
	}
	head = head[:n]

	contentType := "application/octet-stream"
	if kind, _ := filetype.Match(head); kind != filetype.Unknown {
		contentType = kind.MIME.Value
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+sanitizeFilename(filename)+`"`)
	header.Set("Content-Type", contentType)

	part, err := writer.CreatePart(header)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeValidation, "не удалось подготовить загрузку")
	}

	limited := io.LimitedReader{R: io.MultiReader(bytes.NewReader(head), r), N: c.maxUploadBytes + 1}
	written, err := io.Copy(part, &limited)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeValidation, "ошибка чтения файла")
	}
	if written > c.maxUploadBytes {
		return apperror.New(apperror.ErrCodeValidation, "файл превышает допустимый размер")
	}

	for k, v := range extra {
		if err := writer.WriteField(k, v); err != nil {
			return apperror.Wrap(err, apperror.ErrCodeValidation, "не удалось подготовить загрузку")
		}
	}
	if err := writer.Close(); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeValidation, "не удалось подготовить загрузку")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.buildURL(path, nil), &buf)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeNetwork, "не удалось сформировать запрос")
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeNetwork, "сетевая ошибка при загрузке файла")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return parseAPIError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeParse, "не удалось разобрать ответ сервера")
	}
	return nil
}

// sanitizeFilename убирает из имени файла пути и кавычки.
func sanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	if idx := strings.LastIndex(name, "/"); idx >= 0 {
		name = name[idx+1:]
	}
	return strings.ReplaceAll(name, `"`, "")
}
