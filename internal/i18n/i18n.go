package i18n

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"deskpilot/pkg/utils"
)

// Supported languages
const (
	LangZH = "zh"
	LangEN = "en"
)

var (
	currentLang  = LangEN // Default language is English
	translations = make(map[string]map[string]string)
	mutex        sync.RWMutex
)

// Initialize translation data
func init() {
	if err := loadTranslations(); err != nil {
		fmt.Printf("Failed to load translation files: %v\n", err)
	}
	loadLangSetting()
}

// Load translation files, merging defaults into any user-edited copies
func loadTranslations() error {
	i18nDir := filepath.Join(utils.GetConfigDir(), "i18n")
	if err := os.MkdirAll(i18nDir, 0755); err != nil {
		return err
	}

	zhTranslations, err := loadAndUpdateTranslation(filepath.Join(i18nDir, "zh.json"), defaultZHTranslations())
	if err != nil {
		return err
	}
	enTranslations, err := loadAndUpdateTranslation(filepath.Join(i18nDir, "en.json"), defaultENTranslations())
	if err != nil {
		return err
	}

	mutex.Lock()
	translations[LangZH] = zhTranslations
	translations[LangEN] = enTranslations
	mutex.Unlock()
	return nil
}

// Load a translation file, adding any missing default keys
func loadAndUpdateTranslation(path string, defaults map[string]string) (map[string]string, error) {
	var loaded map[string]string
	var updated bool

	if _, err := os.Stat(path); os.IsNotExist(err) {
		loaded = defaults
		updated = true
	} else {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(data, &loaded); err != nil {
			return nil, err
		}
		for key, value := range defaults {
			if _, exists := loaded[key]; !exists {
				loaded[key] = value
				updated = true
			}
		}
	}

	if updated {
		data, err := json.MarshalIndent(loaded, "", "  ")
		if err != nil {
			return nil, err
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			return nil, err
		}
	}
	return loaded, nil
}

func defaultENTranslations() map[string]string {
	return map[string]string{
		// GUI common
		"app_title": "Desktop Automation Assistant",
		"save":      "Save",
		"cancel":    "Cancel",
		"close":     "Close",
		"confirm":   "OK",

		// Main window
		"chat_area":        "Chat",
		"plan_editor":      "Plan JSON (editable)",
		"send":             "Send",
		"validate_plan":    "Validate Plan",
		"execute_plan":     "Execute Plan",
		"save_plan":        "Save Plan",
		"format_json":      "Format JSON",
		"get_position":     "Capture Position",
		"get_process_info": "Running Applications",
		"ai_settings":      "AI Settings",

		// Chat
		"you":               "You",
		"ai":                "AI",
		"generate_failed":   "Plan generation failed: %v",
		"welcome_message":   "Welcome! Describe the desktop task you want to automate and I will generate a plan.",
		"thinking":          "Thinking...",
		"plan_generated":    "Plan generated. Review and edit it on the right.",
		"plan_has_warnings": "Plan generated with %d warning(s). Review it on the right.",
		"plan_has_errors":   "Plan generated with %d error(s). Fix it before executing.",
		"input_placeholder": "Describe the task to automate...",

		// Tools
		"get_position_title": "Capture Position",
		"get_position_desc":  "After pressing OK, click the target location within 5 seconds.\nThe window will minimize so you can reach other applications.",
		"position_copied":    "Captured X=%d, Y=%d and copied to clipboard",
		"getting_app_list":   "Listing running applications...",
		"no_apps_found":      "No running applications found",
		"select_app":         "Select the application to automate:",
		"app_name":           "Application: %s",
		"process_id":         "Process ID: %d",

		// Validation
		"plan_valid":    "Plan is valid: %s",
		"plan_invalid":  "Plan has %d error(s) and %d warning(s)",
		"parse_failed":  "Cannot parse plan: %v",
		"json_reformat": "JSON formatted",

		// Execution
		"no_plan":            "No plan to execute",
		"executing":          "Executing plan...",
		"step_running":       "Step %d: %s",
		"execution_failed":   "Execution failed: %v",
		"execution_complete": "Run finished: %d/%d steps completed",
		"video_saved":        "Recording saved: %s",
		"plan_saved":         "Plan saved to %s",

		// Settings
		"settings_title":   "AI Settings",
		"ai_platform":      "Provider",
		"api_key":          "API Key",
		"model":            "Model",
		"vision_model":     "Vision Model",
		"api_endpoint":     "Endpoint",
		"api_version":      "API Version",
		"proxy_url":        "Proxy URL",
		"settings_updated": "AI settings updated",

		// Toolbar
		"plan_file": "Plan",

		// Language
		"language":         "Language",
		"language_zh":      "中文",
		"language_en":      "English",
		"restart_required": "Restart the application to apply the new language",
	}
}

func defaultZHTranslations() map[string]string {
	return map[string]string{
		// GUI通用
		"app_title": "桌面自动化助手",
		"save":      "保存",
		"cancel":    "取消",
		"close":     "关闭",
		"confirm":   "确定",

		// 主界面
		"chat_area":        "对话区域",
		"plan_editor":      "计划 JSON（可编辑）",
		"send":             "发送",
		"validate_plan":    "验证计划",
		"execute_plan":     "执行计划",
		"save_plan":        "保存计划",
		"format_json":      "格式化 JSON",
		"get_position":     "获取坐标",
		"get_process_info": "运行中的应用",
		"ai_settings":      "AI 设置",

		// 对话
		"you":               "你",
		"ai":                "AI",
		"generate_failed":   "生成计划失败: %v",
		"welcome_message":   "欢迎使用桌面自动化助手！请描述您想要自动化的任务，我会为您生成执行计划。",
		"thinking":          "正在思考...",
		"plan_generated":    "已生成计划，请在右侧查看和编辑",
		"plan_has_warnings": "计划已生成，包含 %d 个警告，请在右侧查看",
		"plan_has_errors":   "计划已生成，包含 %d 个错误，请先修正再执行",
		"input_placeholder": "请描述您想要自动化的任务...",

		// 工具
		"get_position_title": "获取坐标",
		"get_position_desc":  "点击确定后，请在5秒内点击屏幕上的目标位置。\n窗口将最小化以便您点击其他应用。",
		"position_copied":    "已获取坐标 X=%d, Y=%d 并复制到剪贴板",
		"getting_app_list":   "正在获取运行中的应用程序列表...",
		"no_apps_found":      "未能找到正在运行的应用程序",
		"select_app":         "请选择要自动化的应用程序:",
		"app_name":           "应用名称: %s",
		"process_id":         "进程 ID: %d",

		// 验证
		"plan_valid":    "计划有效: %s",
		"plan_invalid":  "计划包含 %d 个错误和 %d 个警告",
		"parse_failed":  "无法解析计划: %v",
		"json_reformat": "JSON 已格式化",

		// 执行
		"no_plan":            "没有可执行的计划",
		"executing":          "正在执行计划...",
		"step_running":       "步骤 %d: %s",
		"execution_failed":   "执行失败: %v",
		"execution_complete": "执行结束: 完成 %d/%d 个步骤",
		"video_saved":        "录像已保存: %s",
		"plan_saved":         "计划已保存到 %s",

		// 设置
		"settings_title":   "AI 设置",
		"ai_platform":      "AI 平台",
		"api_key":          "API 密钥",
		"model":            "模型",
		"vision_model":     "视觉模型",
		"api_endpoint":     "API 端点",
		"api_version":      "API 版本",
		"proxy_url":        "代理 URL",
		"settings_updated": "AI 设置已更新",

		// 工具栏
		"plan_file": "计划",

		// 语言设置
		"language":         "Language",
		"language_zh":      "中文",
		"language_en":      "English",
		"restart_required": "重启应用以应用新语言",
	}
}

// Get current language
func GetCurrentLang() string {
	mutex.RLock()
	defer mutex.RUnlock()
	return currentLang
}

// Set current language
func SetLang(lang string) error {
	if lang != LangZH && lang != LangEN {
		return fmt.Errorf("unsupported language: %s", lang)
	}

	mutex.Lock()
	currentLang = lang
	mutex.Unlock()

	return saveLangSetting(lang)
}

// Save language setting to config file
func saveLangSetting(lang string) error {
	configDir := utils.GetConfigDir()
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(map[string]string{"language": lang}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(configDir, "language.json"), data, 0644)
}

// Load language setting from config file
func loadLangSetting() {
	data, err := os.ReadFile(filepath.Join(utils.GetConfigDir(), "language.json"))
	if err != nil {
		return // Use default language
	}

	var config map[string]string
	if err := json.Unmarshal(data, &config); err != nil {
		return
	}
	if lang, ok := config["language"]; ok && (lang == LangZH || lang == LangEN) {
		mutex.Lock()
		currentLang = lang
		mutex.Unlock()
	}
}

// Get translation text by key
func T(key string) string {
	mutex.RLock()
	defer mutex.RUnlock()

	if trans, ok := translations[currentLang]; ok {
		if text, ok := trans[key]; ok {
			return text
		}
	}

	// Fall back to English, then the key itself
	if currentLang != LangEN {
		if trans, ok := translations[LangEN]; ok {
			if text, ok := trans[key]; ok {
				return text
			}
		}
	}
	return key
}

// Get formatted translation text
func Tf(key string, args ...interface{}) string {
	return fmt.Sprintf(T(key), args...)
}
