package notes

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// ErrInvalidFilename возвращается для имён с path traversal, разделителями или пустых
var ErrInvalidFilename = errors.New("invalid filename")

// ErrFileNotFound возвращается, когда файл отсутствует в каталоге заметок
var ErrFileNotFound = errors.New("file not found")

// Note — открытый для чтения файл заметки
// Вызывающий обязан закрыть File после стриминга
type Note struct {
	Name string
	Size int64
	File *os.File
}

// Resolver отображает имя файла в защищённый каталог заметок
// Имя файла приходит от клиента и считается недоверенным
type Resolver struct {
	dir string
}

// NewResolver создаёт Resolver для указанного каталога
func NewResolver(dir string) *Resolver {
	return &Resolver{dir: dir}
}

// Resolve проверяет имя файла, открывает его и возвращает handle для стриминга
// Возвращает ErrInvalidFilename для traversal-попыток и ErrFileNotFound для отсутствующих файлов
func (r *Resolver) Resolve(filename string) (*Note, error) {
	if err := validateFilename(filename); err != nil {
		return nil, err
	}

	path := filepath.Join(r.dir, filename)

	// Страховка от обхода валидации: итоговый путь обязан остаться внутри каталога
	absDir, err := filepath.Abs(r.dir)
	if err != nil {
		return nil, err
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if absPath != absDir && !strings.HasPrefix(absPath, absDir+string(filepath.Separator)) {
		return nil, ErrInvalidFilename
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrFileNotFound
		}
		return nil, err
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if info.IsDir() {
		f.Close()
		return nil, ErrFileNotFound
	}

	return &Note{
		Name: filename,
		Size: info.Size(),
		File: f,
	}, nil
}

// validateFilename отклоняет пустые имена, абсолютные пути, разделители и ".."
func validateFilename(filename string) error {
	if filename == "" || filename == "." || filename == ".." {
		return ErrInvalidFilename
	}
	if strings.ContainsAny(filename, "/\\") {
		return ErrInvalidFilename
	}
	if filepath.IsAbs(filename) {
		return ErrInvalidFilename
	}
	// filepath.Base как последний фильтр: имя не должно меняться при нормализации
	if filepath.Base(filename) != filename {
		return ErrInvalidFilename
	}
	return nil
}
