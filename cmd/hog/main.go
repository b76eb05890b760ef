package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/ivlev/hog"
	"github.com/ivlev/hog/internal/config"
	"github.com/ivlev/hog/internal/engine"
	"github.com/ivlev/hog/internal/logging"
	"github.com/ivlev/hog/internal/preset"
	"github.com/ivlev/hog/internal/report"
	"github.com/ivlev/hog/internal/source"
	"github.com/ivlev/hog/internal/store"
	"github.com/ivlev/hog/internal/system"
	"github.com/ivlev/hog/internal/version"
)

func main() {
	inputPtr := flag.String("input", "", "Изображение или PDF (по умолчанию: самый свежий файл в input/)")
	pagePtr := flag.Int("page", 0, "Номер страницы PDF (с нуля)")
	dpiPtr := flag.Int("dpi", 150, "DPI рендера PDF")
	windowPtr := flag.String("window", "", "Привести к размеру WxH перед расчетом, например 64x128")
	paramsPtr := flag.String("params", "", "YAML с параметрами, применяется поверх пресета")
	presetPtr := flag.String("preset", "dalal-triggs", "Пресет: "+strings.Join(preset.Names(), ", "))
	listPresetsPtr := flag.Bool("list-presets", false, "Показать пресеты и выйти")
	binsPtr := flag.Int("bins", 0, "Число ориентационных бинов")
	cellPtr := flag.Int("cell", 0, "Размер ячейки в пикселях")
	blockPtr := flag.Int("block", 0, "Размер блока в ячейках")
	clipPtr := flag.Float64("clip", 0, "Порог отсечения после первой нормализации")
	signedPtr := flag.Bool("signed", false, "Знаковые ориентации 0..2π (-signed=false возвращает 0..π)")
	colorPtr := flag.String("color", "", "Свертка RGB: mean, luma, max-gradient")
	edgePtr := flag.String("edge", "", "Границы: replicate, zero")
	spatialPtr := flag.Bool("spatial", false, "Билинейно распределять пиксели по соседним ячейкам")
	workersPtr := flag.Int("workers", 0, "Потоки (0 - из параметров или по числу физических ядер)")
	outputPtr := flag.String("output", "", "Путь к YAML-отчету (если пусто, только сводка в консоли)")
	dataPtr := flag.Bool("data", true, "Записывать значения дескриптора в отчет")
	comparePtr := flag.String("compare", "", "YAML-отчет прошлого запуска для сравнения дескрипторов")
	dbPtr := flag.String("db", "", "База SQLite для сохранения дескриптора")
	logPtr := flag.String("log", "", "Файл отладочного лога")
	dumpPtr := flag.String("dump-params", "", "Записать итоговые параметры в YAML и выйти")
	versionPtr := flag.Bool("version", false, "Показать версию и выйти")

	flag.Parse()

	if *versionPtr {
		fmt.Println(version.String())
		return
	}

	if *listPresetsPtr {
		for _, name := range preset.Names() {
			fmt.Printf("  %-14s %s\n", name, preset.Describe(name))
		}
		return
	}

	if *logPtr != "" {
		if err := logging.SetupLogger(*logPtr); err != nil {
			log.Fatalf("[-] %v", err)
		}
		defer logging.CloseLogger()
	}

	params, err := preset.New(*presetPtr)
	if err != nil {
		log.Fatalf("[-] %v", err)
	}
	if *paramsPtr != "" {
		params, err = config.LoadParams(*paramsPtr, params)
		if err != nil {
			log.Fatalf("[-] Ошибка чтения параметров: %v", err)
		}
	}

	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	applyOverrides(&params, overrides{
		bins:    *binsPtr,
		cell:    *cellPtr,
		block:   *blockPtr,
		clip:    *clipPtr,
		signed:  *signedPtr,
		color:   *colorPtr,
		edge:    *edgePtr,
		spatial: *spatialPtr,
		workers: *workersPtr,
	}, set)
	if err := params.Validate(); err != nil {
		log.Fatalf("[-] %v", err)
	}

	if *dumpPtr != "" {
		if err := config.WriteParams(params, *dumpPtr); err != nil {
			log.Fatalf("[-] %v", err)
		}
		fmt.Printf("[+] Параметры записаны в %s\n", *dumpPtr)
		return
	}

	inputPath := *inputPtr
	if inputPath == "" {
		latest, err := system.FindLatestImage("input")
		if err != nil {
			log.Fatalf("[-] Ошибка: %v. Положите изображение в input/ или укажите -input", err)
		}
		inputPath = latest
		logging.Infof("Выбран файл: %s", inputPath)
	}

	winW, winH, err := parseWindow(*windowPtr)
	if err != nil {
		log.Fatalf("[-] %v", err)
	}

	cfg := &config.Config{
		InputPath:    inputPath,
		Page:         *pagePtr,
		DPI:          *dpiPtr,
		WindowWidth:  winW,
		WindowHeight: winH,
		ParamsPath:   *paramsPtr,
		Preset:       *presetPtr,
		OutputReport: *outputPtr,
		DBPath:       *dbPtr,
		LogPath:      *logPtr,
		Params:       params,
		IncludeData:  *dataPtr || *comparePtr != "",
		BuildVersion: version.Version,
	}

	src, err := source.Open(cfg.InputPath)
	if err != nil {
		log.Fatalf("[-] Ошибка инициализации источника: %v", err)
	}
	defer src.Close()

	var st *store.Store
	if cfg.DBPath != "" {
		st, err = store.Open(cfg.DBPath)
		if err != nil {
			log.Fatalf("[-] Ошибка открытия базы: %v", err)
		}
		defer st.Close()
	}

	rep, err := engine.NewJob(cfg, src, st).Run()
	if err != nil {
		logging.Errorf("%v", err)
		log.Fatalf("[-] Ошибка расчета: %v", err)
	}

	logging.Infof("Изображение: %dx%d, каналов: %d", rep.Width, rep.Height, rep.Channels)
	logging.Infof("Ячеек: %dx%d | Блоков: %dx%d", rep.GridCols, rep.GridRows, rep.BlocksX, rep.BlocksY)

	if st != nil {
		total, err := st.Count()
		if err != nil {
			log.Printf("[!] Не удалось прочитать базу: %v", err)
		} else if stored, err := st.Load(cfg.InputPath); err == nil {
			logging.Infof("В базе %d дескрипторов, для этого файла: %d", total, len(stored))
		}
	}

	if *comparePtr != "" {
		prev, err := report.Read(*comparePtr)
		if err != nil {
			log.Fatalf("[-] Ошибка чтения отчета: %v", err)
		}
		dist, err := report.Distance(prev, rep)
		if err != nil {
			log.Fatalf("[-] Сравнение невозможно: %v", err)
		}
		fmt.Printf("[+] Расстояние до %s: %.6f\n", *comparePtr, dist)
	}

	if cfg.OutputReport != "" {
		if !*dataPtr {
			rep.Descriptor = nil
		}
		if err := rep.WriteFile(cfg.OutputReport); err != nil {
			log.Fatalf("[-] Ошибка записи отчета: %v", err)
		}
		fmt.Printf("[+] Отчет записан: %s\n", cfg.OutputReport)
	}

	fmt.Printf("[+] Дескриптор: %d значений, среднее %.4f, максимум %.4f, ненулевых %.1f%%\n",
		rep.Length, rep.Stats.Mean, rep.Stats.Max, rep.Stats.NonZero*100)
}

type overrides struct {
	bins, cell, block int
	clip              float64
	signed            bool
	color, edge       string
	spatial           bool
	workers           int
}

// applyOverrides copies the flags named in set into p. Flags left at their
// defaults keep the values from the preset or the params file. A worker count
// of 0 after overrides means one worker per physical core.
func applyOverrides(p *hog.Params, o overrides, set map[string]bool) {
	if set["bins"] {
		p.NbBins = o.bins
	}
	if set["cell"] {
		p.CellWidth = o.cell
	}
	if set["block"] {
		p.BlockSize = o.block
	}
	if set["clip"] {
		p.ClipVal = o.clip
	}
	if set["signed"] {
		p.UnsignedDirs = !o.signed
	}
	if set["color"] {
		p.ColorMode = hog.ColorMode(o.color)
	}
	if set["edge"] {
		p.EdgePolicy = hog.EdgePolicy(o.edge)
	}
	if set["spatial"] {
		p.SpatialInterpolation = o.spatial
	}
	if set["workers"] {
		p.Workers = o.workers
	}
	if p.Workers <= 0 {
		p.Workers = system.DefaultWorkers()
	}
}

// parseWindow parses "WxH". An empty string means no resize.
func parseWindow(s string) (int, int, error) {
	if s == "" {
		return 0, 0, nil
	}
	parts := strings.Split(strings.ToLower(s), "x")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("размер окна должен иметь вид 64x128, получено %q", s)
	}
	w, errW := strconv.Atoi(parts[0])
	h, errH := strconv.Atoi(parts[1])
	if errW != nil || errH != nil || w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("размер окна должен иметь вид 64x128, получено %q", s)
	}
	return w, h, nil
}

func init() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Использование: %s [флаги]\n\nСчитает HOG-дескриптор изображения или страницы PDF.\n\n", os.Args[0])
		flag.PrintDefaults()
	}
}
