package imgbb

import "encoding/json"

// Response is the body returned by the upload endpoint on success.
type Response struct {
	Data    ImageData `json:"data"`
	Success bool      `json:"success"`
	Status  int       `json:"status"`

	// Raw is the response body exactly as received.
	Raw json.RawMessage `json:"-"`
}

// ImageData describes an uploaded image. Numeric fields are kept as
// json.Number since the API sends them either as numbers or numeric strings.
type ImageData struct {
	ID         string      `json:"id"`
	Title      string      `json:"title"`
	URLViewer  string      `json:"url_viewer"`
	URL        string      `json:"url"`
	DisplayURL string      `json:"display_url"`
	Width      json.Number `json:"width"`
	Height     json.Number `json:"height"`
	Size       json.Number `json:"size"`
	Time       json.Number `json:"time"`
	Expiration json.Number `json:"expiration"`
	Image      ImageInfo   `json:"image"`
	Thumb      ImageInfo   `json:"thumb"`
	Medium     ImageInfo   `json:"medium"`
	DeleteURL  string      `json:"delete_url"`
}

// ImageInfo describes one hosted variant of an image.
type ImageInfo struct {
	Filename  string `json:"filename"`
	Name      string `json:"name"`
	Mime      string `json:"mime"`
	Extension string `json:"extension"`
	URL       string `json:"url"`
}

// decodeImageData decodes the "data" object. When a field has an
// unexpected type, the remaining fields are still decoded one by one so the
// delete URL is never lost.
func decodeImageData(raw json.RawMessage) ImageData {
	var d ImageData
	if len(raw) == 0 || json.Unmarshal(raw, &d) == nil {
		return d
	}

	var fields map[string]json.RawMessage
	if json.Unmarshal(raw, &fields) != nil {
		return ImageData{}
	}

	d = ImageData{}
	for name, dst := range map[string]any{
		"id":          &d.ID,
		"title":       &d.Title,
		"url_viewer":  &d.URLViewer,
		"url":         &d.URL,
		"display_url": &d.DisplayURL,
		"width":       &d.Width,
		"height":      &d.Height,
		"size":        &d.Size,
		"time":        &d.Time,
		"expiration":  &d.Expiration,
		"image":       &d.Image,
		"thumb":       &d.Thumb,
		"medium":      &d.Medium,
		"delete_url":  &d.DeleteURL,
	} {
		if v, ok := fields[name]; ok {
			_ = json.Unmarshal(v, dst)
		}
	}
	return d
}
